package registry

import (
	"strings"

	"github.com/caal-ai/templatize/pkg/domain"
)

const (
	stickyNoteType  = "n8n-nodes-base.stickyNote"
	trackingHeading = "CAAL Registry Tracking"
)

// ParseStickyNoteTracking extracts registry info from a workflow's tracking
// sticky note. Installed tools carry a sticky note whose markdown lists the
// registry id and version; a workflow without one is a custom workflow and
// yields an entry with nil fields.
func ParseStickyNoteTracking(nodes []domain.Node) Entry {
	for _, node := range nodes {
		if node.Type() != stickyNoteType {
			continue
		}

		content, _ := node.Parameters()["content"].(string)
		if !strings.Contains(content, trackingHeading) {
			continue
		}

		var registryID, version *string
		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "**id:**"):
				id := strings.TrimSpace(strings.TrimPrefix(line, "**id:**"))
				if id != "" {
					registryID = &id
				}
			case strings.HasPrefix(line, "**version:**"):
				v := strings.TrimSpace(strings.TrimPrefix(line, "**version:**"))
				v = strings.TrimPrefix(v, "v")
				if v != "" {
					version = &v
				}
			}
		}

		if registryID != nil {
			return Entry{RegistryID: registryID, Version: version}
		}
	}

	return Entry{}
}
