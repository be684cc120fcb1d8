package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"handwerk-hero/go_backend/internal/app/quoting"
	"handwerk-hero/go_backend/internal/domain/quote"
	"handwerk-hero/go_backend/internal/domain/quote/pdf"
	"handwerk-hero/go_backend/internal/domain/quote/sheet"
	"handwerk-hero/go_backend/internal/infra/llm"
)

type itemView struct {
	quote.LineItem
	LineTotal *float64 `json:"line_total"`
}

type quoteView struct {
	Customer string     `json:"customer"`
	Currency string     `json:"currency"`
	Items    []itemView `json:"items"`
	NetTotal *float64   `json:"net_total"`
}

// viewOf flattens a quote for the client. Line and net totals are null
// while the table has a calculation error.
func viewOf(q quoting.Quote) *quoteView {
	v := &quoteView{
		Customer: q.Customer,
		Currency: q.Currency,
		Items:    make([]itemView, 0, len(q.Items)),
	}
	for i, it := range q.Items {
		row := itemView{LineItem: it}
		if q.CalcErr == nil && i < len(q.Totals.Lines) {
			lt := q.Totals.Lines[i].LineTotal.Round(2).InexactFloat64()
			row.LineTotal = &lt
		}
		v.Items = append(v.Items, row)
	}
	if q.CalcErr == nil {
		net := q.Totals.Net.Round(2).InexactFloat64()
		v.NetTotal = &net
	}
	return v
}

// respondQuote writes the table, or a calculation error that still carries
// the table so the user can fix the offending cell.
func (h *Handlers) respondQuote(w http.ResponseWriter, r *http.Request, status int, q quoting.Quote) {
	if q.CalcErr != nil {
		h.failWith(w, r, q.CalcErr, viewOf(q))
		return
	}
	writeJSON(w, status, viewOf(q))
}

func (h *Handlers) GenerateQuote(w http.ResponseWriter, r *http.Request) {
	_, st := state(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadMB<<20)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || strings.Contains(err.Error(), "request body too large") {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: apiError{
				Code:    "FILE_TOO_LARGE",
				Message: "the upload exceeds " + strconv.FormatInt(h.MaxUploadMB, 10) + " MB",
			}})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: apiError{Code: "BAD_REQUEST", Message: "expected a multipart form"}})
		return
	}
	defer r.MultipartForm.RemoveAll()

	in := quoting.GenerateInput{
		Notes:    r.FormValue("notes"),
		Customer: r.FormValue("customer"),
		APIKey:   r.FormValue("api_key"),
	}

	file, header, err := r.FormFile("photo")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: apiError{Code: "BAD_REQUEST", Message: "could not read the photo"}})
		return
	default:
		defer file.Close()
		img, err := llm.EncodeImage(file, header.Header.Get("Content-Type"))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		in.Photo = &img
	}

	q, err := h.Svc.Generate(r.Context(), st, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondQuote(w, r, http.StatusOK, q)
}

func (h *Handlers) GetQuote(w http.ResponseWriter, r *http.Request) {
	_, st := state(r)
	h.respondQuote(w, r, http.StatusOK, h.Svc.Current(st))
}

type itemsRequest struct {
	Items []quote.LineItem `json:"items"`
}

func (h *Handlers) ReplaceItems(w http.ResponseWriter, r *http.Request) {
	_, st := state(r)
	var req itemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: apiError{Code: "BAD_REQUEST", Message: "invalid items"}})
		return
	}
	h.respondQuote(w, r, http.StatusOK, h.Svc.ReplaceItems(st, req.Items))
}

func (h *Handlers) AddItem(w http.ResponseWriter, r *http.Request) {
	_, st := state(r)
	// An empty body adds a blank row.
	var item quote.LineItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: apiError{Code: "BAD_REQUEST", Message: "invalid item"}})
		return
	}
	h.respondQuote(w, r, http.StatusCreated, h.Svc.AddItem(st, item))
}

func (h *Handlers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	_, st := state(r)
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.fail(w, r, quote.ErrRowOutOfRange)
		return
	}
	q, err := h.Svc.RemoveItem(st, index)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondQuote(w, r, http.StatusOK, q)
}

type customerRequest struct {
	Customer string `json:"customer"`
}

func (h *Handlers) SetCustomer(w http.ResponseWriter, r *http.Request) {
	_, st := state(r)
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: apiError{Code: "BAD_REQUEST", Message: "invalid customer"}})
		return
	}
	h.respondQuote(w, r, http.StatusOK, h.Svc.SetCustomer(st, req.Customer))
}

func (h *Handlers) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	_, st := state(r)
	data, err := h.Svc.RenderPDF(st)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	attachment(w, pdf.ContentType, pdf.Filename, data)
}

func (h *Handlers) DownloadSheet(w http.ResponseWriter, r *http.Request) {
	_, st := state(r)
	data, err := h.Svc.RenderSheet(st)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	attachment(w, sheet.ContentType, sheet.Filename, data)
}

func attachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(filename, `"`, "")+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
