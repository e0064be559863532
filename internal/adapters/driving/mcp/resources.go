package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/questtrack/refsync/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for reference-data resources.
	uriScheme = "refdata://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing data domains.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "domains",
		Name:        "domains",
		Description: "List of all synchronised data domains",
		MIMEType:    "application/json",
	}, s.handleDomainsResource)

	// Template for a domain's full record set.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "domains/{domain}",
		Name:        "domain-records",
		Description: "Cached reference records for a specific data domain",
		MIMEType:    "application/json",
	}, s.handleDomainRecordsResource)

	// Template for a single record.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "domains/{domain}/records/{recordId}",
		Name:        "domain-record",
		Description: "A single cached reference record by id",
		MIMEType:    "application/json",
	}, s.handleRecordResource)
}

// handleDomainsResource returns the list of supported data domains.
func (s *Server) handleDomainsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type domainInfo struct {
		Domain string `json:"domain"`
		URI    string `json:"uri"`
	}

	domains := domain.AllDomains()
	infos := make([]domainInfo, len(domains))
	for i, d := range domains {
		infos[i] = domainInfo{
			Domain: string(d),
			URI:    uriScheme + "domains/" + string(d),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling domains: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDomainRecordsResource returns the full record set for one domain.
func (s *Server) handleDomainRecordsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract domain from URI: refdata://domains/{domain}
	name := extractDomain(req.Params.URI)
	d, err := domain.ParseDomain(name)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	view, err := s.ports.Resolver.Resolve(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", d, err)
	}

	payload := struct {
		Domain  string            `json:"domain"`
		Tier    string            `json:"tier"`
		AsOf    string            `json:"as_of,omitempty"`
		Records []json.RawMessage `json:"records"`
	}{
		Domain:  string(d),
		Tier:    string(view.Tier),
		Records: make([]json.RawMessage, len(view.Records)),
	}
	if !view.AsOf.IsZero() {
		payload.AsOf = view.AsOf.UTC().Format(time.RFC3339)
	}
	for i := range view.Records {
		payload.Records[i] = view.Records[i].Raw()
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling records: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleRecordResource returns a single record by id.
func (s *Server) handleRecordResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract ids from URI: refdata://domains/{domain}/records/{recordId}
	name, recordID := extractDomainRecord(req.Params.URI)
	d, err := domain.ParseDomain(name)
	if err != nil || recordID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	view, err := s.ports.Resolver.Resolve(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", d, err)
	}

	for i := range view.Records {
		if view.Records[i].ID == recordID {
			return &mcp.ReadResourceResult{
				Contents: []*mcp.ResourceContents{{
					URI:      req.Params.URI,
					MIMEType: "application/json",
					Text:     string(view.Records[i].Raw()),
				}},
			}, nil
		}
	}

	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

// extractDomain extracts the domain name from a URI like refdata://domains/{domain}.
func extractDomain(uri string) string {
	const prefix = uriScheme + "domains/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	rest := strings.TrimPrefix(uri, prefix)
	if strings.Contains(rest, "/") {
		return ""
	}
	return rest
}

// extractDomainRecord extracts the domain and record id from a URI like
// refdata://domains/{domain}/records/{recordId}.
func extractDomainRecord(uri string) (string, string) {
	const prefix = uriScheme + "domains/"

	if !strings.HasPrefix(uri, prefix) {
		return "", ""
	}

	rest := strings.TrimPrefix(uri, prefix)
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[1] != "records" {
		return "", ""
	}
	return parts[0], parts[2]
}
