// Package bridge hosts SMAC-compatible environment instances behind an HTTP
// API, so the adapter in envs/smac has a process boundary to bind across.
// The shipped backend is a simplified combat model; a real StarCraft II
// backend would sit behind the same routes.
package bridge

import "sort"

// MapInfo is one catalog entry: a scenario name with its force sizes and
// episode cap.
type MapInfo struct {
	Name         string `json:"name"`
	NAgents      int    `json:"n_agents"`
	NEnemies     int    `json:"n_enemies"`
	EpisodeLimit int    `json:"episode_limit"`
}

// registry mirrors the upstream SMAC map catalog.
var registry = map[string]MapInfo{
	"3m":           {Name: "3m", NAgents: 3, NEnemies: 3, EpisodeLimit: 60},
	"8m":           {Name: "8m", NAgents: 8, NEnemies: 8, EpisodeLimit: 120},
	"25m":          {Name: "25m", NAgents: 25, NEnemies: 25, EpisodeLimit: 150},
	"5m_vs_6m":     {Name: "5m_vs_6m", NAgents: 5, NEnemies: 6, EpisodeLimit: 70},
	"8m_vs_9m":     {Name: "8m_vs_9m", NAgents: 8, NEnemies: 9, EpisodeLimit: 120},
	"10m_vs_11m":   {Name: "10m_vs_11m", NAgents: 10, NEnemies: 11, EpisodeLimit: 150},
	"27m_vs_30m":   {Name: "27m_vs_30m", NAgents: 27, NEnemies: 30, EpisodeLimit: 180},
	"2s3z":         {Name: "2s3z", NAgents: 5, NEnemies: 5, EpisodeLimit: 120},
	"3s5z":         {Name: "3s5z", NAgents: 8, NEnemies: 8, EpisodeLimit: 150},
	"3s5z_vs_3s6z": {Name: "3s5z_vs_3s6z", NAgents: 8, NEnemies: 9, EpisodeLimit: 170},
	"MMM":          {Name: "MMM", NAgents: 10, NEnemies: 10, EpisodeLimit: 150},
	"MMM2":         {Name: "MMM2", NAgents: 10, NEnemies: 12, EpisodeLimit: 180},
	"2m_vs_1z":     {Name: "2m_vs_1z", NAgents: 2, NEnemies: 1, EpisodeLimit: 150},
	"3s_vs_3z":     {Name: "3s_vs_3z", NAgents: 3, NEnemies: 3, EpisodeLimit: 150},
	"3s_vs_4z":     {Name: "3s_vs_4z", NAgents: 3, NEnemies: 4, EpisodeLimit: 200},
	"3s_vs_5z":     {Name: "3s_vs_5z", NAgents: 3, NEnemies: 5, EpisodeLimit: 250},
	"1c3s5z":       {Name: "1c3s5z", NAgents: 9, NEnemies: 9, EpisodeLimit: 180},
	"2c_vs_64zg":   {Name: "2c_vs_64zg", NAgents: 2, NEnemies: 64, EpisodeLimit: 400},
	"corridor":     {Name: "corridor", NAgents: 6, NEnemies: 24, EpisodeLimit: 400},
	"6h_vs_8z":     {Name: "6h_vs_8z", NAgents: 6, NEnemies: 8, EpisodeLimit: 150},
	"bane_vs_bane": {Name: "bane_vs_bane", NAgents: 24, NEnemies: 24, EpisodeLimit: 200},
}

// Maps lists the catalog sorted by name.
func Maps() []MapInfo {
	out := make([]MapInfo, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupMap returns the catalog entry for a scenario name.
func LookupMap(name string) (MapInfo, bool) {
	m, ok := registry[name]
	return m, ok
}
