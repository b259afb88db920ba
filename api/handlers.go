package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/chromalens/api/analysis"
	"github.com/chromalens/api/datastore"
	"github.com/chromalens/api/models"
)

const (
	MaxBatchImages   = 8
	batchConcurrency = 4
)

// GET /
func (app *Application) home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "ChromaLens API")
}

// POST /v1/analyze
func (app *Application) analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	req := &models.AnalyzeRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		app.badBody(w, r, err)
		return
	}

	data, err := app.readImage(req.Image)
	if err != nil {
		app.badImage(w, r, err)
		return
	}

	job := analyzeJob{
		data:     data,
		options:  req.Options,
		hints:    req.Hints,
		labels:   req.DetectLabels,
		insights: req.IncludeInsights,
	}
	resp, err := app.runAnalysis(r.Context(), job)
	if err != nil {
		app.analysisFailed(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// POST /v1/analyze/batch
func (app *Application) analyzeBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	req := &models.BatchAnalyzeRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		app.badBody(w, r, err)
		return
	}
	if len(req.Images) == 0 {
		app.badRequest(w, r, ErrImageRequired)
		return
	}
	if len(req.Images) > MaxBatchImages {
		app.badRequest(w, r, fmt.Errorf("at most %d images per batch, got %d", MaxBatchImages, len(req.Images)))
		return
	}

	items := make([]models.BatchItem, len(req.Images))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(batchConcurrency)
	for i, payload := range req.Images {
		g.Go(func() error {
			items[i] = models.BatchItem{Index: i}
			data, err := app.readImage(payload)
			if err == nil {
				var resp models.AnalyzeResponse
				resp, err = app.runAnalysis(ctx, analyzeJob{data: data, options: req.Options})
				if err == nil {
					items[i].Response = &resp
					return nil
				}
			}
			msg := err.Error()
			items[i].Error = &msg
			return nil
		})
	}
	g.Wait()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.BatchAnalyzeResponse{Items: items})
}

// GET /v1/analyses?limit=N
func (app *Application) listAnalyses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}

	limit := datastore.MaxListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			app.badRequest(w, r, fmt.Errorf("limit must be a positive integer"))
			return
		}
		limit = n
	}

	records, err := app.AnalysisRepo.ListRecent(r.Context(), limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	summaries := make([]models.AnalysisRecordSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, rec.Summary())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(summaries)
}

// GET /v1/analyses/{id}
func (app *Application) getAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/analyses/")
	if id == "" || strings.Contains(id, "/") {
		app.notFound(w, r, fmt.Errorf("analysis %q not found", id))
		return
	}

	rec, err := app.AnalysisRepo.Get(r.Context(), id)
	if err != nil {
		if datastore.IsNotFound(err) {
			app.notFound(w, r, fmt.Errorf("analysis %q not found", id))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	resp, err := app.responseFromRecord(rec)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// GET /v1/images/{key}?token=
func (app *Application) getImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/v1/images/")
	if _, err := models.ValidateBlobToken(r.URL.Query().Get("token"), app.Config.BlobURLSecret, key); err != nil {
		app.forbidden(w, r, ErrInvalidToken)
		return
	}

	if app.Blobs == nil {
		app.notFound(w, r, fmt.Errorf("image %q not found", key))
		return
	}
	blob, err := app.Blobs.Get(r.Context(), key)
	if err != nil {
		if datastore.IsNotFound(err) {
			app.notFound(w, r, fmt.Errorf("image %q not found", key))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if !strings.HasPrefix(blob.ContentType, "image/") {
		w.Header().Set("Content-Disposition", "attachment")
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(blob.Data)
}

type analyzeJob struct {
	data     []byte
	options  models.AnalyzeOptions
	hints    []models.LabelHint
	labels   bool
	insights bool
}

// runAnalysis analyses one image, reusing a stored result when the same image
// was analysed with the same options and nothing request specific affects names.
func (app *Application) runAnalysis(ctx context.Context, job analyzeJob) (models.AnalyzeResponse, error) {
	opts := app.Config.Analysis.WithRequest(job.options)
	if err := opts.Validate(); err != nil {
		return models.AnalyzeResponse{}, optionsError{err}
	}

	hash := imageHash(job.data)
	fingerprint := opts.Fingerprint()
	cacheable := len(job.hints) == 0 && !job.labels

	if cacheable {
		rec, err := app.AnalysisRepo.GetByFingerprint(ctx, hash, fingerprint)
		if err == nil {
			resp, err := app.responseFromRecord(rec)
			if err == nil {
				resp.Cached = true
				app.addInsights(ctx, &resp, job.insights)
				return resp, nil
			}
			log.Printf("cached analysis %s unreadable, recomputing: %v", rec.ID, err)
		} else if !datastore.IsNotFound(err) {
			log.Printf("analysis cache lookup failed: %v", err)
		}
	}

	var labels []models.LabelHint
	if job.labels && app.Labels != nil {
		detected, err := app.Labels.DetectLabels(ctx, job.data, http.DetectContentType(job.data))
		if err != nil {
			log.Printf("label detection failed, continuing without labels: %v", err)
		} else {
			labels = detected
		}
	}

	hints := append(append([]models.LabelHint{}, job.hints...), labels...)
	result, err := analysis.Analyze(job.data, opts, hints)
	if err != nil {
		return models.AnalyzeResponse{}, err
	}

	var imageURL, blobKey string
	if app.Config.StoreImages && app.Blobs != nil {
		blob := models.ImageBlob{Key: hash, ContentType: blobContentType(result.Metadata), Data: job.data}
		if imageURL, err = app.Blobs.Put(ctx, blob); err != nil {
			return models.AnalyzeResponse{}, err
		}
		blobKey = hash
	}

	rec, err := models.NewAnalysisRecord(hash, fingerprint, blobKey, result)
	if err != nil {
		return models.AnalyzeResponse{}, err
	}
	if _, err := app.AnalysisRepo.Create(ctx, rec); err != nil {
		return models.AnalyzeResponse{}, err
	}

	resp := models.AnalyzeResponse{
		ID:       rec.ID,
		ImageURL: imageURL,
		Labels:   labels,
		Analysis: result,
	}
	app.addInsights(ctx, &resp, job.insights)
	return resp, nil
}

// blobContentType names the stored type from what the decoder recognised.
// Bytes read heuristically are never served under a sniffed type.
func blobContentType(meta models.Metadata) string {
	if meta.DataQuality != models.DataDecoded || meta.Format == "" {
		return "application/octet-stream"
	}
	return "image/" + meta.Format
}

func (app *Application) addInsights(ctx context.Context, resp *models.AnalyzeResponse, wanted bool) {
	if !wanted || app.Narrator == nil {
		return
	}
	text, err := app.Narrator.Narrate(ctx, resp.Analysis)
	if err != nil {
		log.Printf("insight generation failed for %s: %v", resp.ID, err)
		return
	}
	resp.Insights = text
}

func (app *Application) responseFromRecord(rec models.AnalysisRecord) (models.AnalyzeResponse, error) {
	result, err := rec.Decode()
	if err != nil {
		return models.AnalyzeResponse{}, err
	}
	resp := models.AnalyzeResponse{ID: rec.ID, Analysis: result}
	if rec.BlobKey != "" {
		if resp.ImageURL, err = app.Config.Signer().URL(rec.BlobKey); err != nil {
			return models.AnalyzeResponse{}, err
		}
	}
	return resp, nil
}

func (app *Application) readImage(payload string) ([]byte, error) {
	data, err := decodeImagePayload(payload)
	if err != nil {
		return nil, err
	}
	if app.Config.MaxImageBytes > 0 && int64(len(data)) > app.Config.MaxImageBytes {
		return nil, errImageTooLarge{size: len(data), limit: app.Config.MaxImageBytes}
	}
	return data, nil
}

type errImageTooLarge struct {
	size  int
	limit int64
}

func (e errImageTooLarge) Error() string {
	return fmt.Sprintf("image is %d bytes, limit is %d", e.size, e.limit)
}

func (app *Application) badBody(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		app.payloadTooLarge(w, r, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	app.badJSONRequest(w, r, err)
}

func (app *Application) badImage(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge errImageTooLarge
	if errors.As(err, &tooLarge) {
		app.payloadTooLarge(w, r, err)
		return
	}
	app.badRequest(w, r, err)
}
