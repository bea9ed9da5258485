package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteEngine calls an external routing-solver service over HTTP. The
// service owns the actual search (first-solution heuristic plus
// metaheuristic); this adapter only ships the formulation and relays the
// verdict. No retry: a failed or infeasible solve is terminal for the run.
type RemoteEngine struct {
	baseURL string
	client  *http.Client
}

func NewRemoteEngine(baseURL string) *RemoteEngine {
	return &RemoteEngine{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

type solveResponse struct {
	Status            string      `json:"status"` // "ok" or "infeasible"
	Assignment        *Assignment `json:"assignment"`
	AppliedExclusions []bool      `json:"applied_exclusions"`
	Message           string      `json:"message"`
}

func (e *RemoteEngine) Solve(ctx context.Context, f *Formulation) (*Assignment, error) {
	payload, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal formulation: %w", err)
	}

	// Leave the service a little headroom past the search budget before the
	// client gives up on the connection.
	timeout := f.Search.TimeLimit + 5*time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/solve", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create solve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("solver request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, ErrNoSolution
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("solver returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var sr solveResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode solver response: %w", err)
	}

	if sr.Status == "infeasible" || sr.Assignment == nil {
		return nil, ErrNoSolution
	}

	// Carry the service's per-exclusion verdict back onto the formulation so
	// the pipeline can warn about domains it could not carve.
	for i := range f.GapExclusions {
		if i < len(sr.AppliedExclusions) {
			f.GapExclusions[i].Applied = sr.AppliedExclusions[i]
		}
	}

	return sr.Assignment, nil
}
