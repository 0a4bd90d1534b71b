package provider

import (
	"fmt"
	"net/http"

	"github.com/datallboy/reelscout/internal/infra/config"
	"github.com/datallboy/reelscout/internal/provider/apibay"
	"github.com/datallboy/reelscout/internal/provider/torznab"
	"github.com/datallboy/reelscout/internal/provider/yts"
)

// Build instantiates the enabled providers in configuration order.
func Build(cfgs []config.ProviderConfig, httpClient *http.Client) ([]Provider, error) {
	providers := make([]Provider, 0, len(cfgs))

	for _, pc := range cfgs {
		if pc.Disabled {
			continue
		}

		switch pc.Kind {
		case config.KindTorznab:
			c := torznab.New(pc.ID, pc.BaseUrl, pc.ApiKey, httpClient)
			if len(pc.Categories) > 0 {
				c.Categories = pc.Categories
			}
			c.Trackers = pc.Trackers
			providers = append(providers, c)

		case config.KindYTS:
			c := yts.New(pc.ID, pc.BaseUrl, httpClient)
			if len(pc.Trackers) > 0 {
				c.Trackers = pc.Trackers
			}
			providers = append(providers, c)

		case config.KindAPIBay:
			c := apibay.New(pc.ID, pc.BaseUrl, httpClient)
			if len(pc.Categories) > 0 {
				c.Category = pc.Categories[0]
			}
			if len(pc.Trackers) > 0 {
				c.Trackers = pc.Trackers
			}
			providers = append(providers, c)

		default:
			return nil, fmt.Errorf("provider %s: unknown kind %q", pc.ID, pc.Kind)
		}
	}

	return providers, nil
}
