package web

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"convocation/internal/adapters/content"
	"convocation/internal/application/orchestrators"
	"convocation/internal/domain/document"
	"convocation/internal/domain/form"
)

// multipartMemory is how much of a multipart post is held in memory; the rest
// spills to temporary files.
const multipartMemory = 2 << 20

// fieldView is one field as rendered, with the value and error to show.
type fieldView struct {
	form.Field
	Value   string
	Error   string
	Visible bool
}

// formView is the data for form.html and form_success.html.
type formView struct {
	Title     string
	Schema    *form.Schema
	Page      *content.Page // optional Markdown shown above the form
	Fields    []fieldView
	Multipart bool
	Error     string // form-level error
}

func newFormView(schema *form.Schema, values map[string]string, errs form.ValidationErrors) formView {
	v := formView{Title: schema.Title, Schema: schema}
	if services.Pages != nil {
		if page, ok := services.Pages.Page(schema.Name); ok {
			v.Page = &page
		}
	}
	if _, ok := schema.FileField(); ok {
		v.Multipart = true
	}
	for _, f := range schema.Fields {
		v.Fields = append(v.Fields, fieldView{
			Field:   f,
			Value:   values[f.Name],
			Error:   errs[f.Name],
			Visible: schema.Visible(f, values),
		})
	}
	return v
}

// handleForm serves GET (blank form or success page) and POST (submit) for one form.
func handleForm(schema *form.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			if r.URL.Query().Get("sent") == "1" {
				renderTemplate(w, r, http.StatusOK, "form_success.html", formView{Title: schema.SuccessTitle, Schema: schema})
				return
			}
			renderTemplate(w, r, http.StatusOK, "form.html", newFormView(schema, nil, nil))
		case "POST":
			submitForm(w, r, schema)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func submitForm(w http.ResponseWriter, r *http.Request, schema *form.Schema) {
	fileField, hasFile := schema.FileField()

	var err error
	if hasFile {
		err = r.ParseMultipartForm(multipartMemory)
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}
	} else {
		err = r.ParseForm()
	}
	values := formValues(r, schema)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) && hasFile {
			renderTemplate(w, r, http.StatusRequestEntityTooLarge, "form.html",
				newFormView(schema, values, form.ValidationErrors{fileField.Name: document.ErrTooBig.Error()}))
			return
		}
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.SubmitFormInput{Form: schema.Name, Values: values}
	if hasFile {
		doc, closer, err := formDocument(r, fileField.Name)
		if err != nil {
			http.Error(w, "Invalid file upload", http.StatusBadRequest)
			return
		}
		if closer != nil {
			defer closer.Close()
		}
		input.Document = doc
	}

	deps := orchestrators.SubmitFormDeps{
		Submissions: stores.SubmissionStore,
		Documents:   stores.Documents,
		Notifier:    services.Notifier,
		GenerateID:  generateID,
		Now:         timeNow,
	}

	_, err = orchestrators.ExecuteSubmitForm(r.Context(), input, deps)
	var verrs form.ValidationErrors
	switch {
	case err == nil:
		http.Redirect(w, r, "/"+schema.Name+"?sent=1", http.StatusSeeOther)
	case errors.As(err, &verrs):
		renderTemplate(w, r, http.StatusUnprocessableEntity, "form.html", newFormView(schema, values, verrs))
	case errors.Is(err, orchestrators.ErrDocumentStorage):
		slog.Error("form_document_storage_failed", "form", schema.Name, "error", err.Error())
		view := newFormView(schema, values, nil)
		view.Error = "Failed to upload document. Please try again."
		renderTemplate(w, r, http.StatusInternalServerError, "form.html", view)
	default:
		internalError(w, err)
	}
}

// formValues picks the schema's non-file fields out of the parsed post.
func formValues(r *http.Request, schema *form.Schema) map[string]string {
	values := make(map[string]string, len(schema.Fields))
	for _, f := range schema.Fields {
		if f.Kind == form.KindFile {
			continue
		}
		if v := r.PostForm.Get(f.Name); v != "" {
			values[f.Name] = v
		}
	}
	return values
}

// formDocument returns the uploaded file for field, or nil when none was chosen.
func formDocument(r *http.Request, field string) (*orchestrators.DocumentUpload, multipart.File, error) {
	file, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &orchestrators.DocumentUpload{
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Size:        hdr.Size,
		Body:        file,
	}, file, nil
}
