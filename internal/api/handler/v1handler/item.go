package v1handler

import (
	"encoding/json"
	"net/http"
	"resolver/pkg/batch"
	"resolver/pkg/controller"
	"resolver/pkg/domain"
)

// ResolveItemsRequest is the body of a batch resolution. IDs accepts a single
// identifier or a list of identifiers.
type ResolveItemsRequest struct {
	IDs batch.IDs `json:"ids"`
}

// PutItemRequest is the body of an item upsert.
type PutItemRequest struct {
	Name       string          `json:"name"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
}

// ResolveItems resolves the identifiers in the request body and responds with
// the found items and the identifiers that were not found.
func (h Handler) ResolveItems(w http.ResponseWriter, r *http.Request) error {
	var req ResolveItemsRequest
	if err := controller.DecodeJSON(r, &req); err != nil {
		return err //nolint: wrapcheck
	}

	res, err := h.deps.Items.Resolve(r.Context(), req.IDs)
	if err != nil {
		return err //nolint: wrapcheck
	}
	controller.WriteJSON(w, http.StatusOK, res)

	return nil
}

// ListItems is the legacy form of ResolveItems taking a comma separated ids
// query parameter. The parameter may be repeated.
func (h Handler) ListItems(w http.ResponseWriter, r *http.Request) error {
	ids := batch.IDs{}
	for _, raw := range r.URL.Query()["ids"] {
		ids = append(ids, batch.SplitIDs(raw)...)
	}

	res, err := h.deps.Items.Resolve(r.Context(), ids)
	if err != nil {
		return err //nolint: wrapcheck
	}
	controller.WriteJSON(w, http.StatusOK, res)

	return nil
}

// GetItem returns a single item by the id path value.
func (h Handler) GetItem(w http.ResponseWriter, r *http.Request) error {
	item, err := h.deps.Items.Get(r.Context(), domain.ItemID(r.PathValue("id")))
	if err != nil {
		return err //nolint: wrapcheck
	}
	controller.WriteJSON(w, http.StatusOK, item)

	return nil
}

// PutItem creates or replaces the item identified by the id path value.
func (h Handler) PutItem(w http.ResponseWriter, r *http.Request) error {
	var req PutItemRequest
	if err := controller.DecodeJSON(r, &req); err != nil {
		return err //nolint: wrapcheck
	}

	item, err := h.deps.Items.Put(r.Context(), domain.Item{
		ID:         domain.ItemID(r.PathValue("id")),
		Name:       req.Name,
		Attributes: req.Attributes,
	})
	if err != nil {
		return err //nolint: wrapcheck
	}
	controller.WriteJSON(w, http.StatusOK, item)

	return nil
}
