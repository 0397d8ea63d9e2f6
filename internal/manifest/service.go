package manifest

import (
	"fmt"
	"strings"

	"mealplan/cli/internal/config"
)

// GetEndpoints builds the manifest for cfg. Endpoint overrides from the config
// replace the defaults field by field.
func GetEndpoints(cfg config.Config) (*Manifest, error) {
	m := &Manifest{BaseURL: cfg.APIBaseURL, HTTP: merge(DefaultEndpoints(), cfg.Endpoints)}
	if m.HTTPBaseURL() == "" {
		return nil, fmt.Errorf("invalid api base url %q: expected scheme and host, e.g. http://localhost:8000", cfg.APIBaseURL)
	}
	return m, nil
}

func merge(d HTTPEndpoints, o config.Endpoints) HTTPEndpoints {
	pick := func(def, override string) string {
		if v := strings.TrimSpace(override); v != "" {
			if !strings.HasPrefix(v, "/") {
				v = "/" + v
			}
			return v
		}
		return def
	}
	return HTTPEndpoints{
		Login:              pick(d.Login, o.Login),
		Register:           pick(d.Register, o.Register),
		Me:                 pick(d.Me, o.Me),
		Refresh:            pick(d.Refresh, o.Refresh),
		Logout:             pick(d.Logout, o.Logout),
		Profile:            pick(d.Profile, o.Profile),
		VerifyEmail:        pick(d.VerifyEmail, o.VerifyEmail),
		ResendVerification: pick(d.ResendVerification, o.ResendVerification),
		ForgotPassword:     pick(d.ForgotPassword, o.ForgotPassword),
		ResetPassword:      pick(d.ResetPassword, o.ResetPassword),
	}
}
