package config

import (
	"fmt"

	"github.com/leapstack-labs/blockgraph/internal/cli/output"
	"github.com/leapstack-labs/blockgraph/internal/theme"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	if !theme.Valid(c.Theme) {
		return fmt.Errorf("unknown theme %q (want one of %v)", c.Theme, theme.Names())
	}
	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	if c.UI.Port < 0 || c.UI.Port > 65535 {
		return fmt.Errorf("ui.port out of range: %d", c.UI.Port)
	}
	return nil
}
