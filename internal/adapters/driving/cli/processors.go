package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fabulist-labs/descry/internal/core/domain"
)

var processorsCmd = &cobra.Command{
	Use:   "processors",
	Short: "Manage extraction processors",
	Long:  `View processor status and adjust weights, thresholds and enablement.`,
	RunE:  runProcessorsStatus,
}

var processorsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show processor status",
	RunE:  runProcessorsStatus,
}

var (
	setWeight    float64
	setThreshold float64
	setEnabled   string
)

var processorsSetCmd = &cobra.Command{
	Use:   "set [processor-id]",
	Short: "Update a processor's configuration",
	Long: `Update a processor's weight, confidence threshold, or enabled
state. Only the flags you pass are changed; changes apply to requests
started after the update and persist across restarts.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcessorsSet,
}

func init() {
	processorsSetCmd.Flags().Float64Var(&setWeight, "weight", -1, "Vote weight (> 0)")
	processorsSetCmd.Flags().Float64Var(&setThreshold, "threshold", -1, "Minimum candidate confidence [0,1]")
	processorsSetCmd.Flags().StringVar(&setEnabled, "enabled", "", "Enable or disable (true/false)")

	processorsCmd.AddCommand(processorsStatusCmd)
	processorsCmd.AddCommand(processorsSetCmd)
	rootCmd.AddCommand(processorsCmd)
}

func runProcessorsStatus(cmd *cobra.Command, _ []string) error {
	if processorAdmin == nil {
		return errors.New("processor admin not configured")
	}

	statuses := processorAdmin.Status()
	if len(statuses) == 0 {
		cmd.Println("No processors registered.")
		return nil
	}

	cmd.Printf("%-12s %-8s %-10s %-8s %-10s %s\n",
		"ID", "WEIGHT", "THRESHOLD", "ENABLED", "AVAILABLE", "ERROR")
	for _, s := range statuses {
		errMsg := ""
		if s.LoadError != "" {
			errMsg = s.LoadError
		}
		cmd.Printf("%-12s %-8.2f %-10.2f %-8t %-10t %s\n",
			s.ID, s.Weight, s.Threshold, s.Enabled, s.Available, errMsg)
	}
	return nil
}

func runProcessorsSet(cmd *cobra.Command, args []string) error {
	if processorAdmin == nil {
		return errors.New("processor admin not configured")
	}

	id := args[0]
	var update domain.ConfigUpdate

	if cmd.Flags().Changed("weight") {
		w := setWeight
		update.Weight = &w
	}
	if cmd.Flags().Changed("threshold") {
		th := setThreshold
		update.Threshold = &th
	}
	if setEnabled != "" {
		switch setEnabled {
		case "true":
			b := true
			update.Enabled = &b
		case "false":
			b := false
			update.Enabled = &b
		default:
			return fmt.Errorf("%w: --enabled must be true or false", domain.ErrInvalidInput)
		}
	}

	if update == (domain.ConfigUpdate{}) {
		return fmt.Errorf("%w: nothing to update, pass --weight, --threshold or --enabled", domain.ErrInvalidInput)
	}

	if err := processorAdmin.UpdateConfig(id, update); err != nil {
		return fmt.Errorf("updating %s: %w", id, err)
	}

	// Persist so the setting survives restarts
	if configStore != nil {
		prefix := "processors." + id + "."
		if update.Weight != nil {
			if err := configStore.Set(prefix+"weight", *update.Weight); err != nil {
				return fmt.Errorf("persisting weight: %w", err)
			}
		}
		if update.Threshold != nil {
			if err := configStore.Set(prefix+"threshold", *update.Threshold); err != nil {
				return fmt.Errorf("persisting threshold: %w", err)
			}
		}
		if update.Enabled != nil {
			if err := configStore.Set(prefix+"enabled", *update.Enabled); err != nil {
				return fmt.Errorf("persisting enabled: %w", err)
			}
		}
	}

	cmd.Printf("Updated processor %s\n", id)
	return nil
}
