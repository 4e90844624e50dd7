package api

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ssargent/pwaudit/pkg/audit"
	"github.com/ssargent/pwaudit/pkg/entry"
	"github.com/ssargent/pwaudit/pkg/policy"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]interface{}{
		"default":  s.config.Policy,
		"policies": policy.Names(),
	})
}

// handleCheck audits the newline-separated records in the request body.
//
// Query parameters:
//
//	policy         count or position, defaults to the server policy
//	stop_on_error  abort at the first bad line (422)
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	policyName := r.URL.Query().Get("policy")
	if policyName == "" {
		policyName = s.config.Policy
	}
	validator, err := policy.Lookup(policyName)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	stopOnError := false
	if raw := r.URL.Query().Get("stop_on_error"); raw != "" {
		stopOnError, err = strconv.ParseBool(raw)
		if err != nil {
			sendError(w, "Invalid stop_on_error value", http.StatusBadRequest)
			return
		}
	}

	body := r.Body
	if s.config.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	}

	auditor := audit.New(validator,
		audit.WithMetrics(s.metrics),
		audit.WithLogger(s.logger),
		audit.StopOnError(stopOnError))

	collector := &audit.Collector{}
	summary, err := auditor.Run(r.Context(), "http", body, collector)
	if err != nil {
		var re *entry.RecordError
		if errors.As(err, &re) {
			sendError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	if s.history != nil {
		if err := s.history.Save(summary); err != nil {
			s.logger.Warn("failed to record run", zap.String("run_id", summary.ID.String()), zap.Error(err))
		}
	}

	results := collector.Results
	if results == nil {
		results = []audit.Result{}
	}
	sendSuccess(w, CheckResponse{Summary: summary, Results: results})
}
