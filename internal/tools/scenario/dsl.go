package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Shopify/go-lua"
)

const (
	scenarioTypeName = "scenario"
	blockTypeName    = "block"
)

// Step kinds produced by the DSL.
const (
	StepSeed              = "seed"
	StepBlock             = "block"
	StepExpectBalance     = "expect_balance"
	StepExpectNonce       = "expect_nonce"
	StepExpectClaim       = "expect_claim"
	StepExpectNoClaim     = "expect_no_claim"
	StepExpectBlockNumber = "expect_block_number"
	StepExpectFailure     = "expect_failure"
	StepExpectIssuance    = "expect_total_issuance"
)

// Scenario is an ordered list of steps built by a Lua script.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one DSL instruction. Args holds Lua values converted to Go.
type Step struct {
	Kind string
	Args map[string]any
}

// blockBuilder lets a script chain extrinsics onto the block step it created.
type blockBuilder struct {
	scenario  *Scenario
	stepIndex int
}

// LoadScenarioFromFile runs the Lua file at path and returns the Scenario it
// returns. The name defaults to the file's base name.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := newLuaState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	return runScript(state, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

// LoadScenario runs a Lua chunk held in memory.
func LoadScenario(name string, source []byte) (*Scenario, error) {
	state := newLuaState()
	if err := lua.LoadBuffer(state, string(source), name, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	return runScript(state, name)
}

func newLuaState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerScenarioType(state)
	registerBlockType(state)
	registerScenarioConstructor(state)
	return state
}

func runScript(state *lua.State, fallbackName string) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = fallbackName
	}
	return scenario, nil
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerBlockType(state *lua.State) {
	lua.NewMetaTable(state, blockTypeName)
	state.NewTable()
	lua.SetFunctions(state, blockMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{{Name: "new", Function: scenarioNew}}, 0)
	state.SetGlobal("Scenario")
}

func scenarioNew(state *lua.State) int {
	scenario := &Scenario{Name: lua.OptString(state, 1, "")}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "seed", Function: scenarioSeed},
	{Name: "block", Function: scenarioBlock},
	{Name: "expect_balance", Function: scenarioExpectBalance},
	{Name: "expect_nonce", Function: scenarioExpectNonce},
	{Name: "expect_claim", Function: scenarioExpectClaim},
	{Name: "expect_no_claim", Function: scenarioExpectNoClaim},
	{Name: "expect_block_number", Function: scenarioExpectBlockNumber},
	{Name: "expect_failure", Function: scenarioExpectFailure},
	{Name: "expect_total_issuance", Function: scenarioExpectIssuance},
}

var blockMethods = []lua.RegistryFunction{
	{Name: "transfer", Function: blockTransfer},
	{Name: "create_claim", Function: blockCreateClaim},
	{Name: "revoke_claim", Function: blockRevokeClaim},
	{Name: "call", Function: blockRawCall},
	{Name: "expect_rejected", Function: blockExpectRejected},
}

// scene:seed(account, amount)
func scenarioSeed(state *lua.State) int {
	scenario := checkScenario(state)
	account := lua.CheckString(state, 2)
	amount := checkAmount(state, 3)
	appendStep(scenario, StepSeed, map[string]any{"account": account, "amount": amount})
	state.PushValue(1)
	return 1
}

// scene:block([number]) returns a builder for the new block.
func scenarioBlock(state *lua.State) int {
	scenario := checkScenario(state)
	args := map[string]any{"extrinsics": []map[string]any{}}
	if !state.IsNoneOrNil(2) {
		number := lua.CheckInteger(state, 2)
		if number < 0 {
			lua.ArgumentError(state, 2, "block number must not be negative")
		}
		args["number"] = number
	}
	index := appendStep(scenario, StepBlock, args)
	state.PushUserData(&blockBuilder{scenario: scenario, stepIndex: index})
	lua.SetMetaTableNamed(state, blockTypeName)
	return 1
}

func scenarioExpectBalance(state *lua.State) int {
	scenario := checkScenario(state)
	account := lua.CheckString(state, 2)
	amount := checkAmount(state, 3)
	appendStep(scenario, StepExpectBalance, map[string]any{"account": account, "amount": amount})
	return 0
}

func scenarioExpectNonce(state *lua.State) int {
	scenario := checkScenario(state)
	account := lua.CheckString(state, 2)
	nonce := lua.CheckInteger(state, 3)
	appendStep(scenario, StepExpectNonce, map[string]any{"account": account, "nonce": nonce})
	return 0
}

func scenarioExpectClaim(state *lua.State) int {
	scenario := checkScenario(state)
	claim := lua.CheckString(state, 2)
	owner := lua.CheckString(state, 3)
	appendStep(scenario, StepExpectClaim, map[string]any{"claim": claim, "owner": owner})
	return 0
}

func scenarioExpectNoClaim(state *lua.State) int {
	scenario := checkScenario(state)
	claim := lua.CheckString(state, 2)
	appendStep(scenario, StepExpectNoClaim, map[string]any{"claim": claim})
	return 0
}

func scenarioExpectBlockNumber(state *lua.State) int {
	scenario := checkScenario(state)
	number := lua.CheckInteger(state, 2)
	appendStep(scenario, StepExpectBlockNumber, map[string]any{"number": number})
	return 0
}

// scene:expect_failure({block = 1, extrinsic = 0, code = "INSUFFICIENT_BALANCE"})
func scenarioExpectFailure(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	if _, ok := readInt(data, "block"); !ok {
		lua.ArgumentError(state, 2, "block is required")
	}
	if _, ok := readInt(data, "extrinsic"); !ok {
		lua.ArgumentError(state, 2, "extrinsic is required")
	}
	appendStep(scenario, StepExpectFailure, data)
	return 0
}

func scenarioExpectIssuance(state *lua.State) int {
	scenario := checkScenario(state)
	amount := checkAmount(state, 2)
	appendStep(scenario, StepExpectIssuance, map[string]any{"amount": amount})
	return 0
}

// blk:transfer(caller, to, amount)
func blockTransfer(state *lua.State) int {
	builder := checkBlock(state)
	builder.appendExtrinsic(map[string]any{
		"caller": lua.CheckString(state, 2),
		"call":   callTransfer,
		"to":     lua.CheckString(state, 3),
		"amount": checkAmount(state, 4),
	})
	state.PushValue(1)
	return 1
}

// blk:create_claim(caller, claim)
func blockCreateClaim(state *lua.State) int {
	builder := checkBlock(state)
	builder.appendExtrinsic(map[string]any{
		"caller": lua.CheckString(state, 2),
		"call":   callCreateClaim,
		"claim":  lua.CheckString(state, 3),
	})
	state.PushValue(1)
	return 1
}

// blk:revoke_claim(caller, claim)
func blockRevokeClaim(state *lua.State) int {
	builder := checkBlock(state)
	builder.appendExtrinsic(map[string]any{
		"caller": lua.CheckString(state, 2),
		"call":   callRevokeClaim,
		"claim":  lua.CheckString(state, 3),
	})
	state.PushValue(1)
	return 1
}

// blk:call(caller, type) submits a call no pallet is expected to know.
func blockRawCall(state *lua.State) int {
	builder := checkBlock(state)
	builder.appendExtrinsic(map[string]any{
		"caller": lua.CheckString(state, 2),
		"call":   callRaw,
		"type":   lua.CheckString(state, 3),
	})
	state.PushValue(1)
	return 1
}

func blockExpectRejected(state *lua.State) int {
	builder := checkBlock(state)
	builder.scenario.Steps[builder.stepIndex].Args["rejected"] = true
	state.PushValue(1)
	return 1
}

func (b *blockBuilder) appendExtrinsic(data map[string]any) {
	step := &b.scenario.Steps[b.stepIndex]
	extrinsics, _ := step.Args["extrinsics"].([]map[string]any)
	step.Args["extrinsics"] = append(extrinsics, data)
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func checkBlock(state *lua.State) *blockBuilder {
	ud := lua.CheckUserData(state, 1, blockTypeName)
	if builder, ok := ud.(*blockBuilder); ok && builder != nil && builder.scenario != nil {
		return builder
	}
	lua.ArgumentError(state, 1, "block expected")
	return nil
}

// maxExactAmount is the largest integer a Lua number holds exactly.
const maxExactAmount = 1<<53 - 1

// checkAmount accepts a non-negative integer up to maxExactAmount or a decimal
// string of any size.
func checkAmount(state *lua.State, index int) string {
	switch state.TypeOf(index) {
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		switch {
		case value < 0:
			lua.ArgumentError(state, index, "amount must not be negative")
		case value > maxExactAmount:
			lua.ArgumentError(state, index, "amount exceeds 2^53; pass it as a decimal string")
		case value != math.Trunc(value):
			lua.ArgumentError(state, index, "amount must be an integer")
		}
		return strconv.FormatInt(int64(value), 10)
	case lua.TypeString:
		value, _ := state.ToString(index)
		return strings.TrimSpace(value)
	default:
		lua.ArgumentError(state, index, "amount must be an integer or decimal string")
		return ""
	}
}

func appendStep(scenario *Scenario, kind string, data map[string]any) int {
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
	return len(scenario.Steps) - 1
}
