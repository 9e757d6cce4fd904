package layout

import (
	"path"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/blockgraph/pkg/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Label is the header text of a block node.
type Label struct {
	DisplayText string
	Subtitle    string
}

// integrationContent is the part of an integration block body the header uses.
type integrationContent struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
}

// dbtConfiguration is the part of a dbt block configuration the header uses.
type dbtConfiguration struct {
	FilePath    string `mapstructure:"file_path"`
	ProjectName string `mapstructure:"dbt_project_name"`
}

// LabelFor derives display text and subtitle for a block in its pipeline.
func LabelFor(b *core.Block, p *core.Pipeline) Label {
	label := Label{
		DisplayText: b.UUID,
		Subtitle:    HumanizeType(b.Type),
	}

	switch {
	case b.Type == core.BlockTypeDBT:
		applyDBTLabel(&label, b)
	case p.IsIntegration():
		applyIntegrationLabel(&label, b)
	}

	return label
}

func applyIntegrationLabel(label *Label, b *core.Block) {
	var content integrationContent
	if b.Content != "" {
		// Unparsable content keeps the uuid
		_ = yaml.Unmarshal([]byte(b.Content), &content)
	}

	switch b.Type {
	case core.BlockTypeDataLoader:
		label.Subtitle = "Source"
		if content.Source != "" {
			label.DisplayText = content.Source
		}
	case core.BlockTypeDataExporter:
		label.Subtitle = "Destination"
		if content.Destination != "" {
			label.DisplayText = content.Destination
		}
	}
}

func applyDBTLabel(label *Label, b *core.Block) {
	var cfg dbtConfiguration
	if err := mapstructure.Decode(b.Configuration, &cfg); err != nil || cfg.FilePath == "" {
		label.Subtitle = "dbt"
		return
	}

	filePath := strings.ReplaceAll(cfg.FilePath, "\\", "/")
	base := path.Base(filePath)
	label.DisplayText = strings.TrimSuffix(base, path.Ext(base))

	project := cfg.ProjectName
	if project == "" {
		if parts := strings.SplitN(filePath, "/", 2); len(parts) == 2 {
			project = parts[0]
		}
	}
	if project == "" {
		project = "dbt"
	}
	label.Subtitle = project
}

// HumanizeType turns "data_loader" into "Data Loader".
func HumanizeType(t core.BlockType) string {
	if t == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(t), "_", " "))
}
