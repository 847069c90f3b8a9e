package main

import (
	"fmt"
	"strings"

	"github.com/BrandonKowalski/curtain/pkg/curtain/constants"
	"github.com/BurntSushi/toml"
)

// Scenario is the decoded form of a scenario file:
//
//	controller = "stack"
//	screens = ["home", "detail"]
//
//	[[step]]
//	op = "push"
//	name = "home"
//	path = "home"
//	wait = true
type Scenario struct {
	Controller string   `toml:"controller"`
	Screens    []string `toml:"screens"`
	Steps      []Step   `toml:"step"`
}

// Step is one scenario action. Which fields matter depends on Op.
type Step struct {
	Op    string `toml:"op"`
	Name  string `toml:"name"`  // Handle the step creates or acts on
	Path  string `toml:"path"`  // Screen path for opens and failure injection
	Count int    `toml:"count"` // Pop count
	Clear bool   `toml:"clear"` // RepairError mode
	Value string `toml:"value"` // Result value
	Wait  bool   `toml:"wait"`  // Wait for the handle to settle before the next step
}

var queueOps = map[string]bool{
	"enqueue": true, "query": true, "close": true, "cancel": true,
	"result": true, "repair": true, "opened": true,
}

var stackOps = map[string]bool{
	"push": true, "switch": true, "pop": true, "pop-entry": true,
}

var sharedOps = map[string]bool{
	"fail": true, "heal": true, "wait": true, "back": true,
}

// needsName lists the ops that must refer to a handle.
var needsName = map[string]bool{
	"enqueue": true, "query": true, "close": true, "cancel": true, "result": true,
	"opened": true, "push": true, "switch": true, "pop-entry": true, "wait": true,
}

// LoadScenario decodes and validates the scenario at path.
func LoadScenario(path string) (*Scenario, error) {
	var sc Scenario
	md, err := toml.DecodeFile(path, &sc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode scenario %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("scenario %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	if sc.Controller == "" {
		sc.Controller = constants.ControllerQueue.GetName()
	}

	var ops map[string]bool
	switch sc.Controller {
	case constants.ControllerQueue.GetName():
		ops = queueOps
	case constants.ControllerStack.GetName():
		ops = stackOps
	default:
		return fmt.Errorf("unknown controller %q", sc.Controller)
	}

	for i, step := range sc.Steps {
		if !ops[step.Op] && !sharedOps[step.Op] {
			return fmt.Errorf("step %d: op %q not supported by the %s controller", i+1, step.Op, sc.Controller)
		}
		if needsName[step.Op] && step.Name == "" {
			return fmt.Errorf("step %d: op %q needs a name", i+1, step.Op)
		}
	}
	return nil
}
