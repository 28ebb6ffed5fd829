package detect

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/amishk599/careerwatch/internal/model"
)

var localeSegmentRegex = regexp.MustCompile(`^[a-z]{2}-[A-Z]{2}$`)

// ParseVendorURL recovers (vendor, identifier) from a careers or job-board
// URL by matching known vendor domains. For slug vendors the identifier is
// the first path segment. Workday URLs yield host+tenant: the tenant comes
// from the segment after a /wday/cxs/ marker, or failing that the segment
// after a locale like "en-US"; a Workday host with no recoverable tenant
// still parses OK with an empty tenant.
func ParseVendorURL(raw string) model.DetectionResult {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return model.DetectionResult{}
	}
	host := strings.ToLower(u.Host)
	parts := splitPath(u.Path)

	slugVendors := []struct {
		domain string
		source model.Source
	}{
		{"greenhouse.io", model.SourceGreenhouse},
		{"lever.co", model.SourceLever},
		{"ashbyhq.com", model.SourceAshby},
		{"smartrecruiters.com", model.SourceSmartRecruiters},
		{"workable.com", model.SourceWorkable},
	}
	for _, v := range slugVendors {
		if !strings.Contains(host, v.domain) {
			continue
		}
		if len(parts) == 0 {
			return model.DetectionResult{}
		}
		return model.DetectionResult{
			OK:     true,
			Source: v.source,
			Slug:   strings.ToLower(parts[0]),
		}
	}

	if strings.HasSuffix(host, "myworkdayjobs.com") {
		res := model.DetectionResult{
			OK:     true,
			Source: model.SourceWorkday,
			Host:   host,
			Board:  "External",
		}
		for i, p := range parts {
			if strings.EqualFold(p, "wday") && i+2 < len(parts) && strings.EqualFold(parts[i+1], "cxs") {
				res.Tenant = parts[i+2]
				return res
			}
		}
		// No cxs marker: the tenant usually follows a locale segment,
		// e.g. /en-US/{tenant}/...
		for i, p := range parts {
			if localeSegmentRegex.MatchString(p) && i+1 < len(parts) {
				res.Tenant = parts[i+1]
				return res
			}
		}
		return res
	}

	return model.DetectionResult{}
}

func splitPath(p string) []string {
	var parts []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}
