// Package tree implements CLI commands for building and inspecting
// authenticated Merkle trees.
package tree

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rileylyman/newton/pkg/merkle"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Manifest is the YAML description of an item set the tree commands
// operate on.
type Manifest struct {
	Items []string `yaml:"items"`
	Keep  []string `yaml:"keep"`
}

var (
	manifestFlag = &cli.StringFlag{
		Name:     "manifest",
		Aliases:  []string{"m"},
		Usage:    "path to a YAML manifest with the tree's items",
		Required: true,
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "enable debug logging",
	}
	itemFlag = &cli.StringFlag{
		Name:     "item",
		Usage:    "the item to prove or verify membership for",
		Required: true,
	}
	proofFlag = &cli.StringFlag{
		Name:     "proof",
		Usage:    "path to a JSON proof file",
		Required: true,
	}
	outFlag = &cli.StringFlag{
		Name:  "out",
		Usage: "file to write the JSON proof to (default: stdout)",
	}
)

// NewCommands returns 'tree' command.
func NewCommands() []*cli.Command {
	return []*cli.Command{{
		Name:  "tree",
		Usage: "build and inspect authenticated merkle trees",
		Subcommands: []*cli.Command{
			{
				Name:   "root",
				Usage:  "build a tree from the manifest items and print its root digest",
				Flags:  []cli.Flag{manifestFlag, debugFlag},
				Action: treeRoot,
			},
			{
				Name:   "validate",
				Usage:  "build a tree and run strict validation on it",
				Flags:  []cli.Flag{manifestFlag, debugFlag},
				Action: treeValidate,
			},
			{
				Name:   "prove",
				Usage:  "generate a membership proof for an item",
				Flags:  []cli.Flag{manifestFlag, itemFlag, outFlag, debugFlag},
				Action: treeProve,
			},
			{
				Name:   "verify",
				Usage:  "verify a membership proof without the tree",
				Flags:  []cli.Flag{proofFlag, itemFlag, debugFlag},
				Action: treeVerify,
			},
			{
				Name:   "prune",
				Usage:  "prune the tree down to the manifest's keep set",
				Flags:  []cli.Flag{manifestFlag, debugFlag},
				Action: treePrune,
			},
		},
	}}
}

func logger(ctx *cli.Context) *zap.Logger {
	if ctx.Bool("debug") {
		return zap.NewExample()
	}
	return zap.NewNop()
}

func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read manifest: %w", err)
	}
	m := new(Manifest)
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("can't parse manifest: %w", err)
	}
	return m, nil
}

func toItems(items []string) []merkle.StringItem {
	elems := make([]merkle.StringItem, len(items))
	for i := range items {
		elems[i] = merkle.StringItem(items[i])
	}
	return elems
}

func buildTree(ctx *cli.Context, log *zap.Logger) (*merkle.Tree[merkle.StringItem], *Manifest, error) {
	m, err := loadManifest(ctx.String("manifest"))
	if err != nil {
		return nil, nil, err
	}
	t, err := merkle.NewTree(toItems(m.Items))
	if err != nil {
		return nil, nil, fmt.Errorf("can't build tree: %w", err)
	}
	log.Debug("tree built",
		zap.Int("items", len(m.Items)),
		zap.Int("height", t.Height()),
		zap.String("root", string(t.Root())))
	return t, m, nil
}

func treeRoot(ctx *cli.Context) error {
	t, _, err := buildTree(ctx, logger(ctx))
	if err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "root: %s\nheight: %d\n", t.Root(), t.Height())
	return nil
}

func treeValidate(ctx *cli.Context) error {
	t, _, err := buildTree(ctx, logger(ctx))
	if err != nil {
		return cli.Exit(err, 1)
	}
	res := t.Validate()
	if res.Kind != merkle.Valid {
		return cli.Exit(fmt.Sprintf("%s: %s", res.Kind, res.Reason), 1)
	}
	fmt.Fprintln(ctx.App.Writer, "Valid")
	return nil
}

func treeProve(ctx *cli.Context) error {
	log := logger(ctx)
	t, _, err := buildTree(ctx, log)
	if err != nil {
		return cli.Exit(err, 1)
	}
	p, err := t.GenerateProof(merkle.StringItem(ctx.String("item")))
	if err != nil {
		return cli.Exit(fmt.Errorf("can't generate proof: %w", err), 1)
	}
	log.Debug("proof generated", zap.Int("steps", len(p.Steps)))

	out := ctx.App.Writer
	if name := ctx.String("out"); name != "" {
		file, err := os.Create(name)
		if err != nil {
			return cli.Exit(fmt.Errorf("can't create proof file: %w", err), 1)
		}
		defer file.Close()
		out = file
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return cli.Exit(fmt.Errorf("can't encode proof: %w", err), 1)
	}
	return nil
}

func treeVerify(ctx *cli.Context) error {
	data, err := os.ReadFile(ctx.String("proof"))
	if err != nil {
		return cli.Exit(fmt.Errorf("can't read proof: %w", err), 1)
	}
	p := new(merkle.Proof)
	if err := json.Unmarshal(data, p); err != nil {
		return cli.Exit(fmt.Errorf("can't parse proof: %w", err), 1)
	}
	if !p.Verify(merkle.StringItem(ctx.String("item"))) {
		return cli.Exit("proof does not verify", 1)
	}
	fmt.Fprintln(ctx.App.Writer, "OK")
	return nil
}

func treePrune(ctx *cli.Context) error {
	log := logger(ctx)
	t, m, err := buildTree(ctx, log)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if len(m.Keep) == 0 {
		return cli.Exit("manifest has no keep set", 1)
	}
	rootBefore := t.Root()
	if !t.Prune(toItems(m.Keep)) {
		return cli.Exit("tree can't be pruned", 1)
	}
	log.Debug("tree pruned", zap.Int("kept", len(m.Keep)))

	res := t.ValidatePruned()
	if res.Kind != merkle.Valid {
		return cli.Exit(fmt.Sprintf("pruned tree is %s: %s", res.Kind, res.Reason), 1)
	}
	if t.Root() != rootBefore {
		return cli.Exit("root digest changed across pruning", 1)
	}
	fmt.Fprintf(ctx.App.Writer, "root: %s (unchanged)\nkept: %d of %d items\n",
		t.Root(), len(m.Keep), len(m.Items))
	return nil
}
