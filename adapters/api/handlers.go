package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gotyche/adapters/excel"
	"gotyche/app"
	"gotyche/domain/dataset"
	"gotyche/internal/errors"
	"gotyche/internal/generators"
	"gotyche/internal/nist"
	"gotyche/internal/report"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSelfTest(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, errors.InvalidInput(err.Error()))
		return
	}
	results := nist.SelfTest()
	status := http.StatusOK
	if !nist.SelfTestPassed(results) {
		status = http.StatusInternalServerError
		s.logger.Error("self-test mismatch against reference vectors")
	}
	s.writeFormatted(w, status, format, results)
}

func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"params":     s.config.Params,
		"battery":    s.config.Battery,
		"thresholds": s.config.Thresholds,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, errors.InvalidInput(err.Error()))
		return
	}

	var req AnalyzeRequest
	ds, err := s.decodeRequest(w, r, &req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	params, battery, thresholds, err := req.Params.Apply(s.config.Params, s.config.Battery, s.config.Thresholds)
	if err != nil {
		s.writeError(w, err)
		return
	}
	svc, err := app.NewPipeline(battery, thresholds, s.config.Workers, s.logger)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := svc.Analyze(r.Context(), app.AnalyzeRequest{
		Dataset:        ds,
		Params:         params,
		IncludeStreams: req.IncludeStreams,
	})
	if err != nil {
		s.writeError(w, errors.Wrap(err, "analysis failed"))
		return
	}
	s.writeFormatted(w, http.StatusOK, format, result)
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)).Decode(&req); err != nil {
		s.writeError(w, errors.InvalidInput(fmt.Sprintf("invalid JSON body: %v", err)))
		return
	}
	ds, err := req.Dataset()
	if err != nil {
		s.writeError(w, err)
		return
	}
	params, battery, thresholds, err := req.Params.Apply(s.config.Params, s.config.Battery, s.config.Thresholds)
	if err != nil {
		s.writeError(w, err)
		return
	}
	svc, err := app.NewPipeline(battery, thresholds, s.config.Workers, s.logger)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sweepReq := app.SweepRequest{Dataset: ds, Params: params, YearsPerBlock: req.YearsPerBlock}
	if req.Fixtures {
		genCfg := s.config.Generators
		genCfg.Length = generators.SamplesPerYear * params.Span.Years()
		fixtures, err := generators.New(genCfg).Fixtures()
		if err != nil {
			s.writeError(w, err)
			return
		}
		sweepReq.Fixtures = fixtures
	}

	result, err := app.NewSweepService(svc).Run(r.Context(), sweepReq)
	if err != nil {
		s.writeError(w, errors.Wrap(err, "sweep failed"))
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// decodeRequest reads either a JSON body or a multipart upload with a
// "file" part and an optional "params" JSON field
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, req *AnalyzeRequest) (*dataset.Dataset, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)).Decode(req); err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("invalid JSON body: %v", err))
		}
		return req.Dataset()
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("invalid upload: %v", err))
	}
	if raw := r.FormValue("params"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Params); err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("invalid params field: %v", err))
		}
	}
	req.IncludeStreams = r.FormValue("include_streams") == "true"

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errors.InvalidInput("multipart upload needs a file part")
	}
	defer file.Close()

	readerCfg := s.config.Reader
	if sheet := r.FormValue("sheet"); sheet != "" {
		readerCfg.Sheet = sheet
	}
	data, err := excel.ReadFrom(file, excel.FileType(header.Filename), readerCfg.Sheet)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	name := strings.TrimSuffix(header.Filename, "."+excel.FileType(header.Filename))
	s.logger.Debug("upload %s: %d rows, %d columns", header.Filename, len(data.Rows), len(data.Headers))
	return excel.ToDataset(name, data, readerCfg)
}

func (s *Server) writeFormatted(w http.ResponseWriter, status int, format report.Format, v interface{}) {
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(status)
	if err := report.Write(w, format, v); err != nil {
		s.logger.Error("writing response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeConfigInvalid, errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("%v", err)
	} else {
		s.logger.Debug("rejected request: %v", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("writing response: %v", err)
	}
}
