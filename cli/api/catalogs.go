package api

import (
	"net/http"
	"satchel/shared"
	"satchel/shared/endpoints"
)

func (ctx *Context) GetCatalogs() ([]shared.Catalog, error) {
	var catalogs []shared.Catalog
	err := ctx.send(http.MethodGet, endpoints.Catalogs.Format(ctx.Server), nil, &catalogs)
	return catalogs, err
}

// GetCatalog returns a catalog along with a filtered page of its artifacts
func (ctx *Context) GetCatalog(catalogID string, filter ArtifactFilter) (shared.CatalogResponse, error) {
	var resp shared.CatalogResponse
	url := withQuery(endpoints.Catalog.Format(ctx.Server, catalogID), filter)
	err := ctx.send(http.MethodGet, url, nil, &resp)
	return resp, err
}

func (ctx *Context) CreateCatalog(catalog shared.NewCatalog) (shared.Catalog, error) {
	var created shared.Catalog
	err := ctx.send(http.MethodPost, endpoints.Catalogs.Format(ctx.Server), catalog, &created)
	return created, err
}

func (ctx *Context) ModifyCatalog(catalogID string, mod shared.ModifyItem) (shared.Catalog, error) {
	var catalog shared.Catalog
	err := ctx.send(http.MethodPut, endpoints.Catalog.Format(ctx.Server, catalogID), mod, &catalog)
	return catalog, err
}

func (ctx *Context) DeleteCatalog(catalogID string) error {
	return ctx.send(http.MethodDelete, endpoints.Catalog.Format(ctx.Server, catalogID), nil, nil)
}

func (ctx *Context) AddToCatalog(catalogID string, artifactIDs []string) (shared.Catalog, error) {
	var catalog shared.Catalog
	err := ctx.send(
		http.MethodPost,
		endpoints.CatalogArtifacts.Format(ctx.Server, catalogID),
		shared.ItemIDs{IDs: artifactIDs},
		&catalog)
	return catalog, err
}

func (ctx *Context) RemoveFromCatalog(catalogID string, artifactIDs []string) (shared.Catalog, error) {
	var catalog shared.Catalog
	err := ctx.send(
		http.MethodDelete,
		endpoints.CatalogArtifacts.Format(ctx.Server, catalogID),
		shared.ItemIDs{IDs: artifactIDs},
		&catalog)
	return catalog, err
}
