// Package api provides the read-only HTTP introspection surface: world
// status, per-creature body state, knowledge dumps and the decision
// journal. All endpoints are GET; nothing here mutates the simulation.
// See design doc Section 8.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/wildmind/internal/engine"
	"github.com/talgya/wildmind/internal/knowledge"
	"github.com/talgya/wildmind/internal/persistence"
	"github.com/talgya/wildmind/internal/world"
)

// Server serves the simulation state over HTTP.
type Server struct {
	Runner  *engine.Runner
	World   *world.World
	Journal *persistence.Journal
	Port    int
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	// Full knowledge dumps walk an entire fact store; keep them off the
	// hot path for misbehaving pollers.
	dumpLimiter := NewRateLimiter(120, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/creatures", s.handleCreatures)
	mux.HandleFunc("/api/v1/creature/", s.handleCreatureRoutes(dumpLimiter))
	mux.HandleFunc("/api/v1/resources", s.handleResources)
	mux.HandleFunc("/api/v1/decisions", s.handleDecisions)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	totalFacts := 0
	for _, m := range s.Runner.Minds() {
		totalFacts += m.Store().Len()
	}

	stocked := 0
	for _, res := range s.World.Resources() {
		if res.Stock > 0 {
			stocked++
		}
	}

	writeJSON(w, map[string]any{
		"name":              "Wildmind",
		"tick":              s.Runner.Tick(),
		"sim_seconds":       s.Runner.Now(),
		"population":        s.World.CreatureCount(),
		"resources":         len(s.World.Resources()),
		"resources_stocked": stocked,
		"total_facts":       totalFacts,
		"total_facts_human": humanize.Comma(int64(totalFacts)),
	})
}

func (s *Server) handleCreatures(w http.ResponseWriter, r *http.Request) {
	type creatureSummary struct {
		ID       uint64  `json:"id"`
		X        int     `json:"x"`
		Y        int     `json:"y"`
		Hunger   float64 `json:"hunger"`
		Energy   float64 `json:"energy"`
		Asleep   bool    `json:"asleep"`
		Facts    int     `json:"facts"`
		Replans  uint64  `json:"replans"`
		HasPlan  bool    `json:"has_plan"`
		PlanGoal string  `json:"plan_goal,omitempty"`
	}

	var result []creatureSummary
	for _, m := range s.Runner.Minds() {
		c := s.World.Creature(m.ID())
		if c == nil {
			continue
		}
		cs := creatureSummary{
			ID:      uint64(m.ID()),
			X:       c.Cell.X,
			Y:       c.Cell.Y,
			Hunger:  c.State.Hunger,
			Energy:  c.State.Energy,
			Asleep:  c.State.Asleep,
			Facts:   m.Store().Len(),
			Replans: m.Replans(),
		}
		if p := m.Plan(); p != nil {
			cs.HasPlan = true
			cs.PlanGoal = p.Goal.Name
		}
		result = append(result, cs)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	writeJSON(w, result)
}

// handleCreatureRoutes dispatches /creature/:id and /creature/:id/mind.
func (s *Server) handleCreatureRoutes(dumpLimiter *RateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		// /api/v1/creature/:id → [0]="" [1]="api" [2]="v1" [3]="creature" [4]=id
		if len(parts) < 5 {
			http.Error(w, "missing creature id", http.StatusBadRequest)
			return
		}
		id, err := strconv.ParseUint(parts[4], 10, 64)
		if err != nil {
			http.Error(w, "invalid creature id", http.StatusBadRequest)
			return
		}

		mind := s.Runner.Mind(knowledge.EntityID(id))
		if mind == nil {
			http.Error(w, "creature not found", http.StatusNotFound)
			return
		}

		if len(parts) >= 6 && parts[5] == "mind" {
			RateLimitMiddleware(dumpLimiter, func(w http.ResponseWriter, r *http.Request) {
				s.handleMindDump(w, r, mind)
			})(w, r)
			return
		}
		s.handleCreatureDetail(w, mind)
	}
}

func (s *Server) handleCreatureDetail(w http.ResponseWriter, mind *engine.Mind) {
	c := s.World.Creature(mind.ID())
	if c == nil {
		http.Error(w, "creature has no body", http.StatusNotFound)
		return
	}

	pouch := make(map[string]int)
	for item, qty := range c.Pouch {
		if qty > 0 {
			pouch[item.String()] = qty
		}
	}

	store := mind.Store()
	byType := make(map[string]int)
	for _, t := range store.All() {
		byType[t.Meta.Type.String()]++
	}

	result := map[string]any{
		"id": uint64(mind.ID()),
		"cell": map[string]int{
			"x": c.Cell.X, "y": c.Cell.Y,
		},
		"body": map[string]any{
			"hunger":    c.State.Hunger,
			"energy":    c.State.Energy,
			"pain":      c.State.Pain,
			"stress":    c.State.Stress,
			"alertness": c.State.Alertness,
			"asleep":    c.State.Asleep,
			"fear":      c.State.Fear,
			"joy":       c.State.Joy,
		},
		"pouch":         pouch,
		"facts":         store.Len(),
		"facts_by_type": byType,
		"decisions":     mind.Decisions(),
		"replans":       mind.Replans(),
	}

	if p := mind.Plan(); p != nil {
		steps := make([]string, len(p.Steps))
		for i, st := range p.Steps {
			steps[i] = st.String()
		}
		result["plan"] = map[string]any{
			"goal":         p.Goal.Name,
			"priority":     p.Goal.Priority,
			"steps":        steps,
			"cost":         p.Cost,
			"success_prob": p.SuccessProb,
		}
	}

	writeJSON(w, result)
}

// handleMindDump returns every live fact with provenance and its current
// decayed strength, optionally filtered by memory type.
func (s *Server) handleMindDump(w http.ResponseWriter, r *http.Request, mind *engine.Mind) {
	now := s.Runner.Now()
	store := mind.Store()
	decay := store.DecayConfig()

	var triples []knowledge.Triple
	if tf := r.URL.Query().Get("type"); tf != "" {
		mt, ok := memoryTypeByName(tf)
		if !ok {
			http.Error(w, "unknown memory type", http.StatusBadRequest)
			return
		}
		triples = store.ByType(mt)
	} else {
		triples = store.All()
	}

	type factEntry struct {
		Subject    string  `json:"subject"`
		Predicate  string  `json:"predicate"`
		Object     string  `json:"object"`
		Source     string  `json:"source"`
		MemoryType string  `json:"memory_type"`
		Confidence float64 `json:"confidence"`
		Strength   float64 `json:"strength"`
		Age        string  `json:"age"`
		Informant  uint64  `json:"informant,omitempty"`
	}

	facts := make([]factEntry, 0, len(triples))
	for _, t := range triples {
		facts = append(facts, factEntry{
			Subject:    t.Subject.String(),
			Predicate:  t.Predicate.String(),
			Object:     t.Object.String(),
			Source:     t.Meta.Source.String(),
			MemoryType: t.Meta.Type.String(),
			Confidence: t.Meta.Confidence,
			Strength:   decay.Strength(t.Meta, now),
			Age:        simAge(now - t.Meta.Timestamp),
			Informant:  uint64(t.Meta.Informant),
		})
	}
	sort.Slice(facts, func(i, j int) bool {
		if facts[i].Subject != facts[j].Subject {
			return facts[i].Subject < facts[j].Subject
		}
		return facts[i].Predicate < facts[j].Predicate
	})

	writeJSON(w, map[string]any{
		"agent": uint64(mind.ID()),
		"count": len(facts),
		"facts": facts,
	})
}

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	type resourceEntry struct {
		ID    uint64 `json:"id"`
		Kind  string `json:"kind"`
		Item  string `json:"item"`
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Stock int    `json:"stock"`
		Max   int    `json:"max_stock"`
	}

	result := make([]resourceEntry, 0, len(s.World.Resources()))
	for _, res := range s.World.Resources() {
		result = append(result, resourceEntry{
			ID:    uint64(res.ID),
			Kind:  res.Kind.String(),
			Item:  res.Item.String(),
			X:     res.Cell.X,
			Y:     res.Cell.Y,
			Stock: res.Stock,
			Max:   res.MaxStock,
		})
	}
	writeJSON(w, result)
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	if s.Journal == nil {
		http.Error(w, "journal not available", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	rows, err := s.Journal.RecentDecisions(limit)
	if err != nil {
		slog.Error("decision query failed", "error", err)
		http.Error(w, "decision query failed", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []persistence.DecisionRow{}
	}
	writeJSON(w, rows)
}

func memoryTypeByName(name string) (knowledge.MemoryType, bool) {
	for _, mt := range []knowledge.MemoryType{
		knowledge.MemoryIntrinsic, knowledge.MemoryPerception,
		knowledge.MemoryEpisodic, knowledge.MemorySemantic,
		knowledge.MemoryProcedural, knowledge.MemoryCultural,
	} {
		if strings.EqualFold(mt.String(), name) {
			return mt, true
		}
	}
	return 0, false
}

// simAge renders a sim-second age like "5 minutes ago" for the dump.
func simAge(seconds float64) string {
	if seconds <= 0 {
		return "now"
	}
	ref := time.Unix(0, 0)
	return humanize.RelTime(ref, ref.Add(time.Duration(seconds*float64(time.Second))), "ago", "from now")
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
