package main

import (
	"net/http"

	"github.com/go-chi/chi"
)

type CreateImportTaskRequest struct {
	SpreadsheetID string `json:"spreadsheet_id" validate:"required"`
	SheetRange    string `json:"sheet_range"`
}

// createImportTaskHandler godoc
//
//	@Summary		Import menu from Google Sheets
//	@Description	Queues a spreadsheet import into the menu
//	@Tags			menu
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateImportTaskRequest	true	"Import request"
//	@Success		202		{object}	domain.ImportTask
//	@Failure		400		{object}	map[string]string
//	@Failure		503		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu/import [post]
func (app *application) createImportTaskHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateImportTaskRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	task, err := app.imports.CreateImportTask(r.Context(), req.SpreadsheetID, req.SheetRange)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusAccepted, task); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getImportTaskHandler godoc
//
//	@Summary		Get import task
//	@Description	Status, imported count and rejected rows of an import
//	@Tags			menu
//	@Produce		json
//	@Param			task_id	path		string	true	"Task ID"
//	@Success		200		{object}	domain.ImportTask
//	@Failure		404		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu/import/{task_id} [get]
func (app *application) getImportTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "task_id")
	if taskID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	task, err := app.imports.GetTask(r.Context(), taskID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, task); err != nil {
		app.internalServerError(w, r, err)
	}
}
