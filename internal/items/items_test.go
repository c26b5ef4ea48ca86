package items_test

import (
	"context"
	"errors"
	"fmt"
	"resolver/internal/items"
	"resolver/pkg/batch"
	"resolver/pkg/domain"
	"resolver/pkg/metrics"
	"resolver/pkg/serrors"
	"resolver/pkg/storage"
	"testing"

	mockstorage "resolver/pkg/storage/mock"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestService(t *testing.T) (*mockstorage.MockStorage, items.Service) {
	t.Helper()

	ctrl := gomock.NewController(t)
	st := mockstorage.NewMockStorage(ctrl)

	return st, items.New(st, nil)
}

func TestService_Resolve(t *testing.T) {
	st, s := newTestService(t)

	gomock.InOrder(
		st.EXPECT().ItemByID(gomock.Any(), domain.ItemID("1")).Return(&domain.Item{ID: "1", Name: "one"}, nil),
		st.EXPECT().ItemByID(gomock.Any(), domain.ItemID("2")).Return(nil, nil),
		st.EXPECT().ItemByID(gomock.Any(), domain.ItemID("3")).Return(&domain.Item{ID: "3", Name: "three"}, nil),
	)

	res, err := s.Resolve(context.Background(), []string{"1", "2", "3"})
	require.NoError(t, err)
	require.Equal(t, []domain.Item{{ID: "1", Name: "one"}, {ID: "3", Name: "three"}}, res.List)
	require.Equal(t, []string{"2"}, res.NotFoundIDs)
}

func TestService_Resolve_Empty(t *testing.T) {
	_, s := newTestService(t)

	res, err := s.Resolve(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, res.List)
	require.Empty(t, res.NotFoundIDs)
	require.NotNil(t, res.List)
	require.NotNil(t, res.NotFoundIDs)
}

func TestService_Resolve_StorageErrorFailsBatch(t *testing.T) {
	st, s := newTestService(t)
	boom := errors.New("connection reset")

	gomock.InOrder(
		st.EXPECT().ItemByID(gomock.Any(), domain.ItemID("1")).Return(&domain.Item{ID: "1"}, nil),
		st.EXPECT().ItemByID(gomock.Any(), domain.ItemID("2")).Return(nil, boom),
	)

	res, err := s.Resolve(context.Background(), []string{"1", "2", "3"})
	require.ErrorIs(t, err, batch.ErrLookup)
	require.ErrorIs(t, err, boom)
	require.Equal(t, batch.Result[domain.Item]{}, res)
}

func TestService_Resolve_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	m, err := metrics.NewBatch(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	st := mockstorage.NewMockStorage(ctrl)
	s := items.New(st, m)

	st.EXPECT().ItemByID(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	_, err = s.Resolve(context.Background(), []string{"a", "b"})
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var notFound int64
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != "batch.ids.not_found" {
				continue
			}
			for _, dp := range md.Data.(metricdata.Sum[int64]).DataPoints {
				notFound += dp.Value
			}
		}
	}
	require.EqualValues(t, 2, notFound)
}

func TestService_Get(t *testing.T) {
	st, s := newTestService(t)
	item := &domain.Item{ID: "a", Name: "Alpha"}

	st.EXPECT().ItemByID(gomock.Any(), domain.ItemID("a")).Return(item, nil)
	got, err := s.Get(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, item, got)

	st.EXPECT().ItemByID(gomock.Any(), domain.ItemID("b")).Return(nil, nil)
	_, err = s.Get(context.Background(), "b")
	require.ErrorIs(t, err, serrors.ErrNotFound)

	boom := errors.New("boom")
	st.EXPECT().ItemByID(gomock.Any(), domain.ItemID("c")).Return(nil, boom)
	_, err = s.Get(context.Background(), "c")
	require.ErrorIs(t, err, boom)
	require.Nil(t, serrors.KindOf(err))
}

func TestService_Put(t *testing.T) {
	t.Run("stores valid item", func(t *testing.T) {
		st, s := newTestService(t)
		in := domain.Item{ID: "a", Name: "Alpha"}
		st.EXPECT().UpsertItem(gomock.Any(), in).Return(&in, nil)

		got, err := s.Put(context.Background(), in)
		require.NoError(t, err)
		require.Equal(t, &in, got)
	})

	for name, in := range map[string]domain.Item{
		"missing id":   {Name: "Alpha"},
		"missing name": {ID: "a", Name: "  "},
	} {
		t.Run(name, func(t *testing.T) {
			_, s := newTestService(t)
			_, err := s.Put(context.Background(), in)
			require.ErrorIs(t, err, serrors.ErrBadRequest)
		})
	}

	t.Run("invalid attributes", func(t *testing.T) {
		st, s := newTestService(t)
		st.EXPECT().UpsertItem(gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("attributes must be a JSON object: %w", storage.ErrInvalidItem))

		_, err := s.Put(context.Background(), domain.Item{ID: "a", Name: "Alpha"})
		require.ErrorIs(t, err, serrors.ErrBadRequest)
		require.ErrorIs(t, err, storage.ErrInvalidItem)
	})
}

func TestService_Ping(t *testing.T) {
	st, s := newTestService(t)

	st.EXPECT().Ping(gomock.Any()).Return(nil)
	require.NoError(t, s.Ping(context.Background()))

	st.EXPECT().Ping(gomock.Any()).Return(errors.New("down"))
	require.ErrorIs(t, s.Ping(context.Background()), serrors.ErrUnavailable)
}
