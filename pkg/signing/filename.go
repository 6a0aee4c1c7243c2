package signing

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/goliatone/go-claimform/pkg/model"
)

// DefaultCampaign prefixes exported filenames when no campaign is configured.
const DefaultCampaign = "HealthEquity-Agreement"

// Filename builds "<campaign>_<last>-<first>_<YYYY-MM-DD>.<ext>" using the UTC
// calendar date of at.
func Filename(campaign string, rec model.Record, at time.Time, ext string) string {
	campaign = strings.TrimSpace(campaign)
	if campaign == "" {
		campaign = DefaultCampaign
	}
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = "pdf"
	}
	return campaign + "_" +
		sanitizeNamePart(rec.LastName) + "-" + sanitizeNamePart(rec.FirstName) + "_" +
		at.UTC().Format("2006-01-02") + "." + ext
}

func sanitizeNamePart(value string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.TrimSpace(value),
	)
	if err != nil {
		folded = value
	}

	var b strings.Builder
	for _, r := range strings.Join(strings.Fields(folded), "-") {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '\'', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
