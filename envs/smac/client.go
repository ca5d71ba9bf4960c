package smac

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// EnvInfo is the introspection metadata of one environment instance. Valid
// only after the environment has been reset once.
type EnvInfo struct {
	MapName      string `json:"map_name"`
	NAgents      int    `json:"n_agents"`
	NActions     int    `json:"n_actions"`
	ObsShape     int    `json:"obs_shape"`
	EpisodeLimit int    `json:"episode_limit"`
}

// StepInfo is the auxiliary outcome of a step.
type StepInfo struct {
	BattleWon   bool `json:"battle_won"`
	DeadAllies  int  `json:"dead_allies"`
	DeadEnemies int  `json:"dead_enemies"`
}

// Client is the capability set every environment binding must provide. It is
// checked at bind time: a wrapper owns exactly one Client for its lifetime.
type Client interface {
	// Reset starts a new episode and returns per-agent observations.
	Reset() ([][]float64, error)
	// Step applies one action index per agent.
	Step(actions []int) (reward float64, done bool, info *StepInfo, err error)
	// Obs returns the current per-agent observations.
	Obs() ([][]float64, error)
	// AvailActions returns the per-agent action availability for the
	// current state.
	AvailActions() ([][]bool, error)
	// Info returns the environment metadata.
	Info() (*EnvInfo, error)
	// Seed returns the seed fixed at construction.
	Seed() (int64, error)
	Close() error
}

// Scenario is one catalog entry of the bridge.
type Scenario struct {
	Name         string `json:"name"`
	NAgents      int    `json:"n_agents"`
	NEnemies     int    `json:"n_enemies"`
	EpisodeLimit int    `json:"episode_limit"`
}

// Availability is the outcome of the bridge capability probe.
type Availability struct {
	Available bool
	Reason    string
}

const probeTimeout = 3 * time.Second

// Probe checks whether a bridge answers at addr. Construction logic consumes
// the result instead of discovering the failure mid-call.
func Probe(addr string) Availability {
	client := &http.Client{Timeout: probeTimeout}
	resp, err := client.Get("http://" + addr + "/maps")
	if err != nil {
		return Availability{Reason: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Availability{Reason: fmt.Sprintf("bridge answered %s", resp.Status)}
	}
	return Availability{Available: true}
}

// Scenarios fetches the scenario catalog of the bridge.
func Scenarios(addr string) ([]Scenario, error) {
	client := &http.Client{Timeout: probeTimeout}
	resp, err := client.Get("http://" + addr + "/maps")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("smac: bridge answered %s", resp.Status)
	}
	var body struct {
		Maps []Scenario `json:"maps"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Maps, nil
}

// AvailableEnvs lists the known scenario identifiers. Without a reachable
// bridge the catalog is empty.
func AvailableEnvs(addr string) []string {
	scenarios, err := Scenarios(addr)
	if err != nil {
		return []string{}
	}
	names := make([]string, 0, len(scenarios))
	for _, s := range scenarios {
		names = append(names, s.Name)
	}
	return names
}

// BridgeClient binds one environment instance hosted on a bridge. Calls are
// synchronous with no timeout: a hang on the bridge propagates to the caller.
type BridgeClient struct {
	base  string
	envID string
	http  *http.Client
}

var _ Client = &BridgeClient{}

// Connect probes the bridge and creates an environment instance there.
func Connect(addr string, cfg Config) (*BridgeClient, error) {
	if cfg.MapName == "" {
		return nil, fmt.Errorf("%w: map name is required to create a bridge environment", ErrConfiguration)
	}
	if av := Probe(addr); !av.Available {
		return nil, fmt.Errorf("%w at %s: %s; install and start a SMAC bridge, see %s",
			ErrDependencyMissing, addr, av.Reason, ProjectURL)
	}
	c := &BridgeClient{
		base: "http://" + addr,
		http: &http.Client{},
	}
	req := map[string]interface{}{
		"map_name": cfg.MapName,
		"seed":     cfg.Seed,
		"options":  cfg.Options,
	}
	var resp struct {
		EnvID string `json:"env_id"`
	}
	if err := c.post("/envs", req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	c.envID = resp.EnvID
	return c, nil
}

func (c *BridgeClient) do(method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("smac bridge: %s", apiErr.Error)
		}
		return fmt.Errorf("smac bridge: %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *BridgeClient) post(path string, in, out interface{}) error {
	return c.do(http.MethodPost, path, in, out)
}

func (c *BridgeClient) get(path string, out interface{}) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c *BridgeClient) envPath(op string) string {
	return "/envs/" + c.envID + "/" + op
}

func (c *BridgeClient) Reset() ([][]float64, error) {
	var resp struct {
		Obs [][]float64 `json:"obs"`
	}
	if err := c.post(c.envPath("reset"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Obs, nil
}

func (c *BridgeClient) Step(actions []int) (float64, bool, *StepInfo, error) {
	req := map[string]interface{}{"actions": actions}
	var resp struct {
		Reward float64  `json:"reward"`
		Done   bool     `json:"done"`
		Info   StepInfo `json:"info"`
	}
	if err := c.post(c.envPath("step"), req, &resp); err != nil {
		return 0, false, nil, err
	}
	info := resp.Info
	return resp.Reward, resp.Done, &info, nil
}

func (c *BridgeClient) Obs() ([][]float64, error) {
	var resp struct {
		Obs [][]float64 `json:"obs"`
	}
	if err := c.get(c.envPath("obs"), &resp); err != nil {
		return nil, err
	}
	return resp.Obs, nil
}

func (c *BridgeClient) AvailActions() ([][]bool, error) {
	var resp struct {
		Avail [][]bool `json:"avail"`
	}
	if err := c.get(c.envPath("avail_actions"), &resp); err != nil {
		return nil, err
	}
	return resp.Avail, nil
}

func (c *BridgeClient) Info() (*EnvInfo, error) {
	info := &EnvInfo{}
	if err := c.get(c.envPath("info"), info); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *BridgeClient) Seed() (int64, error) {
	var resp struct {
		Seed int64 `json:"seed"`
	}
	if err := c.get(c.envPath("seed"), &resp); err != nil {
		return 0, err
	}
	return resp.Seed, nil
}

func (c *BridgeClient) Close() error {
	return c.do(http.MethodDelete, "/envs/"+c.envID, nil, nil)
}
