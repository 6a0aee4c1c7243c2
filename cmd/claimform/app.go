package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/goliatone/go-claimform/internal/config"
	"github.com/goliatone/go-claimform/pkg/orchestrator"
	"github.com/goliatone/go-claimform/pkg/site"
)

// newOrchestrator wires the campaign, export and theme settings.
func newOrchestrator(c *config.Config, extra ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	opts := []orchestrator.Option{
		orchestrator.WithCampaign(c.Campaign.Name),
		orchestrator.WithAcceptedJurisdiction(c.Campaign.AcceptedJurisdiction),
		orchestrator.WithPDFConfig(c.Export.PDF),
		orchestrator.WithDefaultFormat(c.Export.DefaultFormat),
		orchestrator.WithTheme(c.Theme.Name, c.Theme.Variant),
		orchestrator.WithCTAPolicy(c.Site.CTA),
	}
	if path := c.Site.ContentFile; path != "" {
		content, err := site.LoadContent(os.DirFS(filepath.Dir(path)), filepath.Base(path))
		if err != nil {
			return nil, eris.Wrapf(err, "load site content %s", path)
		}
		opts = append(opts, orchestrator.WithContent(content))
	}

	orch := orchestrator.New(append(opts, extra...)...)
	if err := orch.Err(); err != nil {
		return nil, eris.Wrap(err, "init orchestrator")
	}
	return orch, nil
}
