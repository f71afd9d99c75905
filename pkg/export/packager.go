package export

import "github.com/formulalab/masterclass/pkg/export/deckfile"

// defaultPackagerLoader builds the PowerPoint packager. It runs at most
// once per Exporter, on the first PPTX export.
func defaultPackagerLoader() (Packager, error) {
	return deckfile.FromPNG, nil
}
