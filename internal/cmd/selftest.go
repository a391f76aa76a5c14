package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	qsharp "github.com/Zaba505/qsharp-bridge-go"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Smoke test the evaluator and the Q# operations",
	Args:  cobra.NoArgs,
	RunE:  runSelftest,
}

func init() {
	rootCmd.AddCommand(selftestCmd)
}

// check is one smoke test, detail is printed next to its outcome
type check struct {
	name string
	run  func(ctx context.Context, b *qsharp.Bridge) (detail string, err error)
}

type checkResult struct {
	name   string
	detail string
	err    error
}

var checks = []check{
	{name: "Single Qubit", run: checkSingleQubit},
	{name: "Bell State", run: checkBellState},
	{name: "Entanglement", run: checkEntanglement},
	{name: "Teleportation", run: checkTeleportation},
	{name: "API Models", run: checkModels},
}

func runSelftest(cmd *cobra.Command, args []string) error {
	b, _, _, err := openBridge(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	results := selftest(cmd.Context(), b, checks)
	writeResults(cmd.OutOrStdout(), results)

	failed := lo.CountBy(results, func(r checkResult) bool { return r.err != nil })
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	return nil
}

func selftest(ctx context.Context, b *qsharp.Bridge, checks []check) []checkResult {
	return lo.Map(checks, func(c check, _ int) checkResult {
		detail, err := c.run(ctx, b)
		return checkResult{name: c.name, detail: detail, err: err}
	})
}

func writeResults(out io.Writer, results []checkResult) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Check", "Result", "Detail"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, r := range results {
		if r.err != nil {
			table.Append([]string{r.name, color.New(color.FgRed).Render("FAIL"), r.err.Error()})
			continue
		}
		table.Append([]string{r.name, color.New(color.FgGreen).Render("PASS"), r.detail})
	}
	table.Render()

	passed := lo.CountBy(results, func(r checkResult) bool { return r.err == nil })
	fmt.Fprintf(out, "%d/%d checks passed\n", passed, len(results))
}

func checkSingleQubit(ctx context.Context, b *qsharp.Bridge) (string, error) {
	q, err := qsharp.NewQubit("q_test", "Test", "Demo")
	if err != nil {
		return "", err
	}
	m, err := b.MeasureQubit(ctx, q)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("measured %d", m), nil
}

func checkBellState(ctx context.Context, b *qsharp.Bridge) (string, error) {
	alice, err := qsharp.NewQubit("q_alice", "Alice", "Sender")
	if err != nil {
		return "", err
	}
	bob, err := qsharp.NewQubit("q_bob", "Bob", "Receiver")
	if err != nil {
		return "", err
	}
	pair, err := b.CreateBellState(ctx, alice, bob)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("measured %d and %d", pair.First, pair.Second), nil
}

func checkEntanglement(ctx context.Context, b *qsharp.Bridge) (string, error) {
	q1, err := qsharp.NewQubit("q_01", "Qubit1", "Test")
	if err != nil {
		return "", err
	}
	q2, err := qsharp.NewQubit("q_02", "Qubit2", "Test")
	if err != nil {
		return "", err
	}
	res, err := b.EntangleQubits(ctx, q1, q2)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("result %s, %s entangled with %v", res, q1.ID(), q1.EntangledWith), nil
}

func checkTeleportation(ctx context.Context, b *qsharp.Bridge) (string, error) {
	message, err := qsharp.NewQubit("q_msg", "Message", "Input")
	if err != nil {
		return "", err
	}
	alice, err := qsharp.NewQubit("q_alice", "Alice", "Sender")
	if err != nil {
		return "", err
	}
	bob, err := qsharp.NewQubit("q_bob", "Bob", "Receiver")
	if err != nil {
		return "", err
	}

	var bits []string
	for _, state := range []string{"zero", "one", "superposition"} {
		res, err := b.Teleport(ctx, message, alice, bob, state)
		if err != nil {
			return "", fmt.Errorf("%s: %w", state, err)
		}
		bits = append(bits, fmt.Sprintf("%s=%s", state, res.ClassicalBits()))
	}
	return fmt.Sprint(bits), nil
}

func checkModels(_ context.Context, _ *qsharp.Bridge) (string, error) {
	raw := []byte(`{"id":"q_api","label":"API Test","role":"Test","isEntangled":false,"state":"|0>","entangleWith":[]}`)

	var q qsharp.QubitMetadata
	if err := json.Unmarshal(raw, &q); err != nil {
		return "", err
	}
	if q.ID() != "q_api" || q.State != qsharp.DefaultQubitState {
		return "", fmt.Errorf("decoded %+v", q)
	}
	return "qubit " + q.ID() + " decoded", nil
}
