package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rto-ops-api/internal/ingest"
	"rto-ops-api/internal/repository"
	"rto-ops-api/pkg/apierror"
	"rto-ops-api/pkg/response"
	"rto-ops-api/pkg/uid"
)

// IngestHandler accepts marketplace return report uploads and streams
// ingestion progress back over SSE.
type IngestHandler struct {
	store          repository.ReturnsStore
	batchSize      int
	maxUploadBytes int64
}

func NewIngestHandler(store repository.ReturnsStore, batchSize int, maxUploadBytes int64) *IngestHandler {
	return &IngestHandler{
		store:          store,
		batchSize:      batchSize,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload handles POST /api/v1/returns/{marketplace}/upload
//
// The response is a text/event-stream: progress events while batches land,
// then exactly one done or error event. Client disconnect cancels the run;
// batches already flushed stay committed and re-uploading the same file
// later only inserts what is missing.
func (h *IngestHandler) Upload(w http.ResponseWriter, r *http.Request) {
	mp, ok := ingest.ByName(chi.URLParam(r, "marketplace"))
	if !ok {
		response.Error(w, apierror.NotFound("unknown marketplace"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, apierror.PayloadTooLarge(""))
			return
		}
		response.Error(w, apierror.BadRequest("missing file field in multipart form"))
		return
	}
	defer file.Close()

	src, err := ingest.NewRowSource(header.Filename, file)
	if err != nil {
		response.Error(w, apierror.UnsupportedMediaType(err.Error()))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		src.Close()
		response.Error(w, apierror.InternalError("streaming unsupported"))
		return
	}

	uploadID := uid.New()
	log.Printf("[IngestHandler] upload=%s marketplace=%s file=%s size=%d",
		uploadID, mp.Name, header.Filename, header.Size)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	pipeline := ingest.NewPipeline(mp, h.store, h.batchSize)
	for ev := range pipeline.Run(r.Context(), src) {
		writeSSE(w, flusher, ev)
	}
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, ev ingest.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	w.Write([]byte("event: " + string(ev.Type) + "\n"))
	w.Write([]byte("data: "))
	w.Write(data)
	w.Write([]byte("\n\n"))
	flusher.Flush()
}
