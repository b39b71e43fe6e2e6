// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

// Package dashboard serves the clustering engine as a JSON API for the
// exploration UI.
package dashboard

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/jcodagnone/geotempo/cluster"
	"github.com/jcodagnone/geotempo/spatial"
	"github.com/jcodagnone/geotempo/units"
)

var (
	// ErrNoResult is returned before the first clustering run.
	ErrNoResult = errors.New("no clustering run yet")
	// ErrStaleRun is returned when a client asks about a run that was replaced.
	ErrStaleRun = errors.New("stale run")
)

// Server holds the record metrics and the latest clustering result.
type Server struct {
	metrics *cluster.Metrics

	// NewProgress, when set, returns the progress callback of each run.
	NewProgress func() cluster.Progress

	// runMu serializes runs: a run completes before the next one starts.
	runMu sync.Mutex

	// mu guards the published result. It is only held to swap or read it,
	// so readers keep seeing the last completed run while a new one computes.
	mu     sync.RWMutex
	runID  string
	result *cluster.Result
}

// NewServer returns a server over metrics with no result yet.
func NewServer(metrics *cluster.Metrics) *Server {
	return &Server{metrics: metrics}
}

// Recompute runs the clustering with p and makes it the current result.
func (s *Server) Recompute(p cluster.Params) (string, *cluster.Result, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	var progress cluster.Progress
	if s.NewProgress != nil {
		progress = s.NewProgress()
	}

	res, err := s.metrics.Run(p, progress)
	if err != nil {
		return "", nil, err
	}

	runID := uuid.NewString()

	s.mu.Lock()
	s.runID = runID
	s.result = res
	s.mu.Unlock()

	log.Printf("✅ run %s: %d records, %d clusters", runID, len(res.Details), len(res.Clusters))

	return runID, res, nil
}

// current returns the latest result. When the request names a run, it must
// be the latest one.
func (s *Server) current(ctx *gin.Context) (string, *cluster.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.result == nil {
		return "", nil, ErrNoResult
	}

	if run := ctx.Query("run"); run != "" && run != s.runID {
		return "", nil, fmt.Errorf("%w: %s (current is %s)", ErrStaleRun, run, s.runID)
	}

	return s.runID, s.result, nil
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, ErrNoResult), errors.Is(err, ErrStaleRun):
		return http.StatusConflict
	default:
		return cluster.StatusCode(err)
	}
}

func abort(ctx *gin.Context, err error) {
	ctx.JSON(statusCode(err), gin.H{"error": err.Error()})
}

// Router registers the API routes.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/api/records", s.getRecords)
	r.GET("/api/estimate", s.getEstimate)
	r.POST("/api/clusters", s.postClusters)
	r.GET("/api/clusters", s.getClusters)
	r.GET("/api/clusters/details", s.getDetails)
	r.GET("/api/clusters/locations", s.getLocations)
	r.GET("/api/clusters/times", s.getTimes)
	r.GET("/api/clusters/boundaries", s.getBoundaries)
	r.GET("/api/clusters/related", s.getRelated)
	r.GET("/api/clusters/evaluation", s.getEvaluation)
	r.GET("/api/clusters/zoom", s.getZoom)

	return r
}

// Run serves the API on addr.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

// parseLabels reads a comma separated list of cluster IDs. ok is false when
// the parameter is absent.
func parseLabels(ctx *gin.Context, name string) (labels []cluster.Label, ok bool, err error) {
	raw, present := ctx.GetQuery(name)
	if !present {
		return nil, false, nil
	}

	labels = []cluster.Label{}

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.Atoi(part)
		if err != nil || id < 0 {
			return nil, true, &cluster.ParameterError{
				Type:    cluster.ErrorTypeUnknown,
				Message: fmt.Sprintf("invalid cluster id %q", part),
			}
		}

		labels = append(labels, cluster.Label(id))
	}

	return labels, true, nil
}

// selected returns the details of the clusters named by the "clusters"
// parameter, or every detail.
func selected(ctx *gin.Context, res *cluster.Result) ([]cluster.Detail, error) {
	ids, ok, err := parseLabels(ctx, "clusters")
	if err != nil {
		return nil, err
	}

	if !ok {
		return res.Details, nil
	}

	return cluster.Select(res.Details, ids), nil
}

func (s *Server) getRecords(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"records":    len(s.metrics.Records()),
		"attributes": s.metrics.Attributes(),
	})
}

func (s *Server) getEstimate(ctx *gin.Context) {
	distanceUnit := units.Distance(ctx.DefaultQuery("distance_unit", string(units.Miles)))
	timeUnit := units.Time(ctx.DefaultQuery("time_unit", string(units.Hours)))

	distance, err := cluster.EstimateDistance(s.metrics.Distance(), distanceUnit)
	if err != nil {
		abort(ctx, err)

		return
	}

	duration, err := cluster.EstimateDuration(s.metrics.Duration(), timeUnit)
	if err != nil {
		abort(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"distance": distance, "duration": duration})
}

func (s *Server) postClusters(ctx *gin.Context) {
	var p cluster.Params
	if err := ctx.ShouldBindJSON(&p); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})

		return
	}

	runID, res, err := s.Recompute(p)
	if err != nil {
		abort(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"run": runID, "params": res.Params, "clusters": res.Clusters})
}

func (s *Server) getClusters(ctx *gin.Context) {
	runID, res, err := s.current(ctx)
	if err != nil {
		abort(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"run": runID, "params": res.Params, "clusters": res.Clusters})
}

func (s *Server) getDetails(ctx *gin.Context) {
	runID, res, err := s.current(ctx)
	if err != nil {
		abort(ctx, err)

		return
	}

	details, err := selected(ctx, res)
	if err != nil {
		abort(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"run": runID, "details": details})
}

func (s *Server) getLocations(ctx *gin.Context) {
	s.axisSummary(ctx, cluster.AxisLocation)
}

func (s *Server) getTimes(ctx *gin.Context) {
	s.axisSummary(ctx, cluster.AxisTime)
}

// axisSummary lists the axis groups the selected records belong to.
func (s *Server) axisSummary(ctx *gin.Context, axis cluster.Axis) {
	runID, res, err := s.current(ctx)
	if err != nil {
		abort(ctx, err)

		return
	}

	details, err := selected(ctx, res)
	if err != nil {
		abort(ctx, err)

		return
	}

	all := res.Locations
	if axis == cluster.AxisTime {
		all = res.Times
	}

	groups := make(map[cluster.Label]bool)
	for _, d := range details {
		groups[d.Assignment.Of(axis)] = true
	}

	rows := []cluster.AxisSummary{}

	for _, row := range all {
		if groups[row.ID] {
			rows = append(rows, row)
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"run": runID, "axis": axis.String(), "summary": rows})
}

func (s *Server) getBoundaries(ctx *gin.Context) {
	runID, res, err := s.current(ctx)
	if err != nil {
		abort(ctx, err)

		return
	}

	ids, ok, err := parseLabels(ctx, "clusters")
	if err != nil {
		abort(ctx, err)

		return
	}

	boundaries := res.Boundaries
	if ok {
		boundaries = []cluster.Boundary{}

		for _, b := range res.Boundaries {
			for _, id := range ids {
				if b.ID == id {
					boundaries = append(boundaries, b)
				}
			}
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"run": runID, "boundaries": boundaries})
}

func (s *Server) getRelated(ctx *gin.Context) {
	runID, res, err := s.current(ctx)
	if err != nil {
		abort(ctx, err)

		return
	}

	ids, ok, err := parseLabels(ctx, "clusters")
	if err != nil {
		abort(ctx, err)

		return
	}

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "clusters query parameter is required"})

		return
	}

	var axis cluster.Axis

	switch by := ctx.DefaultQuery("by", "location"); by {
	case "location":
		axis = cluster.AxisLocation
	case "time":
		axis = cluster.AxisTime
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid relation %q (valid: location, time)", by)})

		return
	}

	related := cluster.Related(res.Details, ids, axis)
	if related == nil {
		related = []cluster.Label{}
	}

	ctx.JSON(http.StatusOK, gin.H{"run": runID, "by": axis.String(), "clusters": related})
}

func (s *Server) getEvaluation(ctx *gin.Context) {
	runID, res, err := s.current(ctx)
	if err != nil {
		abort(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"run": runID, "histograms": cluster.Evaluate(res.Clusters)})
}

func (s *Server) getZoom(ctx *gin.Context) {
	runID, res, err := s.current(ctx)
	if err != nil {
		abort(ctx, err)

		return
	}

	details, err := selected(ctx, res)
	if err != nil {
		abort(ctx, err)

		return
	}

	points := make([]orb.Point, len(details))
	for i, d := range details {
		points[i] = d.Projected
	}

	window, ok := spatial.ZoomWindow(points)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no records selected"})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"run": runID, "window": window})
}
