package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	qsharp "github.com/Zaba505/qsharp-bridge-go"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through a teleportation experiment",
	Long: `Demo measures Alice and Bob, entangles them, prepares a Bell pair and
teleports a message state from Alice to Bob, printing the qubits after each step.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().String("message-state", qsharp.DefaultMessageState, "message state to teleport: zero, one, plus, minus or superposition")
	demoCmd.Flags().Bool("dump", false, "dump every raw result")
}

func runDemo(cmd *cobra.Command, args []string) error {
	state, _ := cmd.Flags().GetString("message-state")
	dump, _ := cmd.Flags().GetBool("dump")

	b, _, _, err := openBridge(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	if !b.Available() {
		return qsharp.ErrDefinitionsUnavailable
	}

	return demo(cmd.Context(), b, cmd.OutOrStdout(), state, dump)
}

func demo(ctx context.Context, b *qsharp.Bridge, out io.Writer, state string, dump bool) error {
	alice, err := qsharp.NewQubit("q_01", "Alice", "Sender")
	if err != nil {
		return err
	}
	bob, err := qsharp.NewQubit("q_02", "Bob", "Receiver")
	if err != nil {
		return err
	}
	message, err := qsharp.NewQubit("q_msg", "Message", "Input")
	if err != nil {
		return err
	}

	step := func(title string) { fmt.Fprintf(out, "\n%s\n", color.New(color.FgCyan, color.OpBold).Render(title)) }
	show := func(v any) {
		if dump {
			spew.Fdump(out, v)
		}
	}

	fmt.Fprintln(out, color.New(color.OpBold).Render("=== Quantum Teleportation Experiment ==="))
	writeQubits(out, alice, bob)

	step("1. Initializing qubits...")
	for _, q := range []*qsharp.QubitMetadata{alice, bob} {
		m, err := b.MeasureQubit(ctx, q)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s result: %d %s\n", q.Label, m, m.Ket())
		show(m)
	}

	step("2. Creating entanglement...")
	if !alice.IsEntangled || !bob.IsEntangled {
		res, err := b.EntangleQubits(ctx, alice, bob)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Entanglement result: %s\n", res)
		show(res)
	}
	writeQubits(out, alice, bob)

	step("3. Creating Bell states...")
	pair, err := b.CreateBellState(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Bell pair measured as %d and %d\n", pair.First, pair.Second)
	show(pair)

	step(fmt.Sprintf("4. Teleporting a %s message...", state))
	res, err := b.Teleport(ctx, message, alice, bob, state)
	if err != nil {
		return err
	}
	show(res)
	fmt.Fprintf(out, "Classical bits %s sent to Bob, Bob's final state: %s\n", res.ClassicalBits(), res.ReceiverState)
	if res.Success {
		fmt.Fprintln(out, color.New(color.FgGreen).Render("✓ teleportation succeeded"))
	} else {
		fmt.Fprintln(out, color.New(color.FgRed).Render("✗ teleportation failed"))
	}
	writeQubits(out, message, alice, bob)
	return nil
}

func writeQubits(out io.Writer, qubits ...*qsharp.QubitMetadata) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "Label", "Role", "State", "Entangled", "With"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, q := range qubits {
		table.Append([]string{
			q.ID(),
			q.Label,
			q.Role,
			q.State,
			strconv.FormatBool(q.IsEntangled),
			strings.Join(q.EntangledWith, ","),
		})
	}
	table.Render()
}
