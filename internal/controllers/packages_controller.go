package controllers

import (
	"net/http"

	"github.com/wey-codes/haulpro-crm/internal/dtos"
	"github.com/wey-codes/haulpro-crm/internal/services"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

type PackagesController struct {
	pkgService *services.PackageService
}

func NewPackagesController(s *services.PackageService) *PackagesController {
	return &PackagesController{pkgService: s}
}

// POST /api/v1/packages
func (c *PackagesController) CreatePackageHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	var req dtos.CreatePackageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pkg, err := c.pkgService.Create(r.Context(), acctID, req)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.PackageResponse{Package: pkg})
}

// GET /api/v1/packages?include_hidden=true
func (c *PackagesController) ListPackagesHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	includeHidden := r.URL.Query().Get("include_hidden") == "true"

	pkgs, err := c.pkgService.List(r.Context(), acctID, includeHidden)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ListPackagesResponse{Results: pkgs, Total: len(pkgs)})
}

// GET /api/v1/packages/{package_id}
func (c *PackagesController) GetPackageHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	pkgID, ok := pathUUID(w, r, "package_id")
	if !ok {
		return
	}

	pkg, err := c.pkgService.Get(r.Context(), acctID, pkgID)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.PackageResponse{Package: pkg})
}
