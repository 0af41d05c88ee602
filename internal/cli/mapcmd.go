package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/retain-io/retain/internal/identmap"
	"github.com/retain-io/retain/internal/ir"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Manage the identifier map",
	Long: `Commands for inspecting and editing the persisted identifier map.

The map is created once, at adoption time, and afterwards only edited
explicitly through these commands; planning runs read it but never
modify it.`,
}

var (
	mapGenStack       string
	mapGenEnvironment string
	mapGenOut         string

	mapAddNewID         string
	mapAddOriginalID    string
	mapAddResourceType  string
	mapAddComponentName string
	mapAddComponentType string
)

var mapGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Create a fresh, empty identifier map",
	RunE:  runMapGenerate,
}

var mapValidateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate an identifier map",
	Args:  cobra.ExactArgs(1),
	RunE:  runMapValidate,
}

var mapShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Show the mappings in an identifier map",
	Args:  cobra.ExactArgs(1),
	RunE:  runMapShow,
}

var mapAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Add a mapping entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runMapAdd,
}

var mapRmCmd = &cobra.Command{
	Use:   "rm <path> <newId>",
	Short: "Remove a mapping entry",
	Args:  cobra.ExactArgs(2),
	RunE:  runMapRm,
}

func init() {
	mapGenerateCmd.Flags().StringVar(&mapGenStack, "stack", "", "Stack name")
	mapGenerateCmd.Flags().StringVar(&mapGenEnvironment, "environment", "", "Environment name")
	mapGenerateCmd.Flags().StringVarP(&mapGenOut, "out", "o", defaultMapPath, "Output path")
	mapGenerateCmd.MarkFlagRequired("stack")

	mapAddCmd.Flags().StringVar(&mapAddNewID, "new-id", "", "Synthesized identifier the rule targets")
	mapAddCmd.Flags().StringVar(&mapAddOriginalID, "original-id", "", "Deployed identifier to restore")
	mapAddCmd.Flags().StringVar(&mapAddResourceType, "resource-type", "", "Resource type the rule applies to")
	mapAddCmd.Flags().StringVar(&mapAddComponentName, "component-name", "", "Component name")
	mapAddCmd.Flags().StringVar(&mapAddComponentType, "component-type", "", "Component type")
	mapAddCmd.MarkFlagRequired("new-id")
	mapAddCmd.MarkFlagRequired("original-id")
	mapAddCmd.MarkFlagRequired("resource-type")

	mapCmd.AddCommand(mapGenerateCmd)
	mapCmd.AddCommand(mapValidateCmd)
	mapCmd.AddCommand(mapShowCmd)
	mapCmd.AddCommand(mapAddCmd)
	mapCmd.AddCommand(mapRmCmd)
}

func runMapGenerate(cmd *cobra.Command, args []string) error {
	mgr := identmap.NewManager(mapGenOut, logger)
	if existing := mgr.Load(cmd.Context()); existing != nil {
		return fmt.Errorf("identifier map already exists at %s; refusing to overwrite", mapGenOut)
	}

	m := identmap.Generate(mapGenStack, mapGenEnvironment)
	if err := mgr.Save(cmd.Context(), m); err != nil {
		return err
	}

	fmt.Printf("Created identifier map for stack %q at %s\n", mapGenStack, mapGenOut)
	return nil
}

func runMapValidate(cmd *cobra.Command, args []string) error {
	mgr := identmap.NewManager(args[0], logger)
	m := mgr.Load(cmd.Context())
	if m == nil {
		return fmt.Errorf("no usable identifier map at %s", args[0])
	}

	result := identmap.Validate(m)
	if result.Valid {
		fmt.Printf("Identifier map is valid (%d mapping(s)).\n", len(m.Mappings))
		return nil
	}

	fmt.Println("Identifier map is INVALID:")
	for _, msg := range result.Errors {
		fmt.Printf("  - %s\n", msg)
	}
	return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
}

func runMapShow(cmd *cobra.Command, args []string) error {
	mgr := identmap.NewManager(args[0], logger)
	m := mgr.Load(cmd.Context())
	if m == nil {
		return fmt.Errorf("no usable identifier map at %s", args[0])
	}

	fmt.Printf("Stack: %s", m.StackName)
	if m.Environment != "" {
		fmt.Printf(" (%s)", m.Environment)
	}
	fmt.Printf("\nVersion: %d\n", m.Version)

	if len(m.Mappings) == 0 {
		fmt.Println("\nNo mappings.")
		return nil
	}

	keys := make([]string, 0, len(m.Mappings))
	for k := range m.Mappings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println("\nMappings:")
	for _, k := range keys {
		mp := m.Mappings[k]
		fmt.Printf("  %s -> %s (%s, %s)\n", mp.NewID, mp.OriginalID, mp.ResourceType, mp.Strategy)
	}
	fmt.Printf("\nTotal: %d mapping(s)\n", len(m.Mappings))
	return nil
}

func runMapAdd(cmd *cobra.Command, args []string) error {
	mgr := identmap.NewManager(args[0], logger)

	if err := mgr.Lock(); err != nil {
		return err
	}
	defer mgr.Unlock()

	m := mgr.Load(cmd.Context())
	if m == nil {
		return fmt.Errorf("no usable identifier map at %s (run 'retain map generate' first)", args[0])
	}

	if _, exists := m.Mappings[mapAddNewID]; exists {
		return fmt.Errorf("mapping for %q already exists; remove it first", mapAddNewID)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	m.Mappings[mapAddNewID] = &ir.IdentifierMapping{
		OriginalID:    mapAddOriginalID,
		NewID:         mapAddNewID,
		ResourceType:  mapAddResourceType,
		ComponentName: mapAddComponentName,
		ComponentType: mapAddComponentType,
		Strategy:      ir.StrategyExactMatch,
		Metadata:      ir.MappingMetadata{CreatedAt: now, UpdatedAt: now},
	}
	m.UpdatedAt = now

	// Surface conflicts immediately; the entry is still written so the
	// operator can inspect and fix the map as a whole.
	if conflicts := identmap.DetectConflicts(m); len(conflicts) > 0 {
		for _, msg := range conflicts {
			fmt.Printf("WARNING: %s\n", msg)
		}
	}

	if err := mgr.Save(cmd.Context(), m); err != nil {
		return err
	}

	fmt.Printf("Added mapping %s -> %s\n", mapAddNewID, mapAddOriginalID)
	return nil
}

func runMapRm(cmd *cobra.Command, args []string) error {
	path, newID := args[0], args[1]
	mgr := identmap.NewManager(path, logger)

	if err := mgr.Lock(); err != nil {
		return err
	}
	defer mgr.Unlock()

	m := mgr.Load(cmd.Context())
	if m == nil {
		return fmt.Errorf("no usable identifier map at %s", path)
	}

	if _, ok := m.Mappings[newID]; !ok {
		return fmt.Errorf("no mapping for %q in %s", newID, path)
	}
	delete(m.Mappings, newID)
	m.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := mgr.Save(cmd.Context(), m); err != nil {
		return err
	}

	fmt.Printf("Removed mapping for %s\n", newID)
	return nil
}
