package batch_test

import (
	"encoding/json"
	"resolver/pkg/batch"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDs_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    batch.IDs
		wantErr bool
	}{
		{name: "array", in: `{"ids":["1","2"]}`, want: batch.IDs{"1", "2"}},
		{name: "scalar", in: `{"ids":"1"}`, want: batch.IDs{"1"}},
		{name: "null", in: `{"ids":null}`, want: batch.IDs{}},
		{name: "empty array", in: `{"ids":[]}`, want: batch.IDs{}},
		{name: "number", in: `{"ids":1}`, wantErr: true},
		{name: "mixed array", in: `{"ids":["1",2]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req struct {
				IDs batch.IDs `json:"ids"`
			}
			err := json.Unmarshal([]byte(tt.in), &req)
			if tt.wantErr {
				require.Error(t, err)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, req.IDs)
		})
	}
}

func TestIDs_MissingFieldStaysNil(t *testing.T) {
	var req struct {
		IDs batch.IDs `json:"ids"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	require.Nil(t, req.IDs)
}

func TestSplitIDs(t *testing.T) {
	require.Equal(t, batch.IDs{"a", "b", "a"}, batch.SplitIDs(" a, b,,a ,"))
	require.Equal(t, batch.IDs{}, batch.SplitIDs(""))
}
