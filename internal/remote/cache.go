package remote

import "github.com/alisonjenkins/tmux-sessionizer/internal/domain"

// cachedRecord is the on-disk shape of a per-profile remote catalogue
// snapshot ("<cache>/remote/<profile>").
type cachedRecord struct {
	CachedAtUnix int64              `yaml:"cached_at_unix"`
	Repositories []cachedRepository `yaml:"repositories"`
}

// cachedRepository mirrors domain.Repository in a YAML-friendly shape;
// domain.Repository itself carries no struct tags, so the wire format
// lives here instead.
type cachedRepository struct {
	DisplayName     string `yaml:"display_name"`
	EncryptedOrigin string `yaml:"encrypted_origin"`
	PlainOrigin     string `yaml:"plain_origin"`
	WebURL          string `yaml:"web_url"`
}

func toCached(repos []domain.Repository) []cachedRepository {
	out := make([]cachedRepository, 0, len(repos))
	for _, r := range repos {
		c := cachedRepository{DisplayName: r.DisplayName}
		if r.RemoteEndpoints != nil {
			c.EncryptedOrigin = r.RemoteEndpoints.Encrypted
			c.PlainOrigin = r.RemoteEndpoints.Plain
			c.WebURL = r.RemoteEndpoints.Web
		}
		out = append(out, c)
	}
	return out
}

func fromCached(records []cachedRepository) []domain.Repository {
	out := make([]domain.Repository, 0, len(records))
	for _, c := range records {
		out = append(out, domain.Repository{
			DisplayName: c.DisplayName,
			Kind:        domain.KindRemote,
			RemoteEndpoints: &domain.RemoteEndpoints{
				Encrypted: c.EncryptedOrigin,
				Plain:     c.PlainOrigin,
				Web:       c.WebURL,
			},
		})
	}
	return out
}
