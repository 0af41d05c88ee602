package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retain-io/retain/internal/adopt"
	"github.com/retain-io/retain/internal/identmap"
	"github.com/retain-io/retain/internal/ir"
)

var (
	adoptEnvironment string
	adoptTreePath    string
	adoptOutPath     string
	adoptForce       bool
)

var adoptCmd = &cobra.Command{
	Use:   "adopt <stack-name>",
	Short: "Build an identifier map from a deployed CloudFormation stack",
	Long: `Reads the deployed stack's resources and creates an identifier map whose
original identifiers are the stack's logical IDs, so a pre-existing
deployment can be brought under management without destructive
replacement.

With --tree, deployed resources are matched to synthesized ones by
resource type where unambiguous; anything ambiguous is listed for manual
mapping with 'retain map add'.

Example:
  retain adopt orders-prod --environment prod --tree synth.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAdopt,
}

func init() {
	adoptCmd.Flags().StringVar(&adoptEnvironment, "environment", "", "Environment name")
	adoptCmd.Flags().StringVarP(&adoptTreePath, "tree", "t", "", "Synthesized tree to match deployed resources against")
	adoptCmd.Flags().StringVarP(&adoptOutPath, "out", "o", defaultMapPath, "Output path for the identifier map")
	adoptCmd.Flags().BoolVar(&adoptForce, "force", false, "Overwrite an existing identifier map")
}

func runAdopt(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	stackName := args[0]

	var synthesized *ir.ResourceTree
	if adoptTreePath != "" {
		t, err := loadTree(ctx, adoptTreePath)
		if err != nil {
			return err
		}
		synthesized = t
	}

	mgr := identmap.NewManager(adoptOutPath, logger)
	if !adoptForce {
		if existing := mgr.Load(ctx); existing != nil {
			return fmt.Errorf("identifier map already exists at %s (use --force to overwrite)", adoptOutPath)
		}
	}

	adopter, err := adopt.NewDefaultAdopter(ctx, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Adopting stack %s...\n", stackName)
	m, unmatched, err := adopter.AdoptStack(ctx, stackName, adoptEnvironment, synthesized)
	if err != nil {
		return err
	}

	if err := mgr.Lock(); err != nil {
		return err
	}
	defer mgr.Unlock()

	if err := mgr.Save(ctx, m); err != nil {
		return err
	}

	fmt.Printf("Wrote %d mapping(s) to %s\n", len(m.Mappings), adoptOutPath)
	if len(unmatched) > 0 {
		fmt.Println("\nNo unambiguous synthesized match for:")
		for _, entry := range unmatched {
			fmt.Printf("  - %s\n", entry)
		}
		fmt.Println("\nMap these by hand with 'retain map add'.")
	}
	return nil
}
