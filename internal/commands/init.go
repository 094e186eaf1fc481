package commands

import (
	"fmt"
	"io"

	"partdoc/internal/fs"
	"partdoc/internal/scaffold"
)

// InitOpts holds options for the init command.
type InitOpts struct {
	// Root is the workspace root to initialize; defaults to ".".
	Root string
}

// Init scaffolds a fresh workspace: config, prompt template, a working
// corpus, and sample inputs. Fails if configs/app.yaml already exists.
func Init(fsys fs.FS, opts InitOpts, stdout io.Writer) error {
	root := opts.Root
	if root == "" {
		root = "."
	}

	created, err := scaffold.Init(fsys, root)
	if err != nil {
		return err
	}

	for _, rel := range created {
		fmt.Fprintf(stdout, "created %s\n", rel)
	}
	fmt.Fprintln(stdout, "workspace initialized; try: partdoc run assets/samples/widget_housing.txt")
	return nil
}
