package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"pureproxy/internal/api/dto"
	"pureproxy/internal/config"
	"pureproxy/internal/database"
	"pureproxy/internal/jobs/checker"
	"pureproxy/internal/support"
	"pureproxy/internal/support/purity"

	"github.com/charmbracelet/log"
)

const minAnalyzeInputLength = 6

// Shared so manual submissions reuse one enrichment client and its
// in-flight lookup dedup.
var analyzePipeline = sync.OnceValue(checker.NewPipeline)

func getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func getProxies(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)

	endpoints, total, err := database.QueryEndpoints(r.Context(), filter)
	if err != nil {
		log.Error("endpoint query failed", "error", err)
		writeError(w, "Could not query endpoints", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dto.EndpointPage{
		Endpoints: dto.FromEndpoints(endpoints),
		Total:     total,
	})
}

func filterFromQuery(r *http.Request) dto.EndpointFilter {
	query := r.URL.Query()

	filter := dto.EndpointFilter{
		Search:      query.Get("search"),
		CountryCode: query.Get("countryCode"),
		SortBy:      query.Get("sortBy"),
		Order:       query.Get("order"),
	}

	if raw := query.Get("minPurity"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			filter.MinPurity = parsed
		}
	}
	if raw := query.Get("residential"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			filter.Residential = &parsed
		}
	}
	if raw := query.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			filter.Limit = parsed
		}
	}

	return filter
}

func analyzeText(w http.ResponseWriter, r *http.Request) {
	text := readAnalyzeInput(r)

	if len(strings.TrimSpace(text)) < minAnalyzeInputLength {
		writeError(w, "no valid input", http.StatusBadRequest)
		return
	}

	defaultPort := config.GetConfig().Checker.DefaultPort
	candidates := support.ExtractCandidates(text, defaultPort)
	if len(candidates) == 0 {
		writeError(w, "no valid input", http.StatusBadRequest)
		return
	}

	accepted := analyzePipeline().Run(r.Context(), candidates, "manual", purity.ModeManual)

	writeJSON(w, http.StatusOK, dto.AnalyzeResponse{
		Submitted: len(candidates),
		Accepted:  len(accepted),
		Endpoints: dto.FromEndpoints(accepted),
	})
}

// Accepts either a JSON body with a "text" field or a plain form post, so
// both the frontend and curl one-liners work.
func readAnalyzeInput(r *http.Request) string {
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var payload dto.AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return ""
		}
		return payload.Text
	}
	return r.FormValue("text")
}
