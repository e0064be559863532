package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/questtrack/refsync/internal/core/domain"
)

// LookupInput is the input schema for the lookup tool.
type LookupInput struct {
	Domain string `json:"domain" jsonschema:"the data domain to resolve (tasks, hideout or items)"`
	ID     string `json:"id,omitempty" jsonschema:"return only the record with this id"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of records to return (default all)"`
}

// LookupOutput is the output schema for the lookup tool.
type LookupOutput struct {
	Domain  string            `json:"domain"`
	Tier    string            `json:"tier"`
	AsOf    string            `json:"as_of,omitempty"`
	Count   int               `json:"count"`
	Records []json.RawMessage `json:"records"`
}

// SyncInput is the input schema for the sync tool.
type SyncInput struct {
	Domain string `json:"domain,omitempty" jsonschema:"sync only this data domain; all domains when omitted"`
}

// SyncOutput is the output schema for the sync tool.
type SyncOutput struct {
	RunID   string             `json:"run_id,omitempty"`
	Results []SyncDomainOutput `json:"results"`
}

// SyncDomainOutput is the per-domain result in the sync tool output.
type SyncDomainOutput struct {
	Domain  string `json:"domain"`
	Outcome string `json:"outcome"`
	Stage   string `json:"stage,omitempty"`
	Error   string `json:"error,omitempty"`
	Records int    `json:"records"`
	Shards  int    `json:"shards"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "lookup_reference_data",
		Description: "Look up cached game reference data for a domain",
	}, s.handleLookup)

	if s.ports.Sync != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "sync_reference_data",
			Description: "Trigger a reference data sync against the catalog",
		}, s.handleSync)
	}
}

// handleLookup handles the lookup tool invocation.
func (s *Server) handleLookup(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LookupInput,
) (*mcp.CallToolResult, LookupOutput, error) {
	d, err := domain.ParseDomain(input.Domain)
	if err != nil {
		return nil, LookupOutput{}, err
	}

	view, err := s.ports.Resolver.Resolve(ctx, d)
	if err != nil {
		return nil, LookupOutput{}, err
	}

	records := view.Records
	if input.ID != "" {
		records = nil
		for i := range view.Records {
			if view.Records[i].ID == input.ID {
				records = append(records, view.Records[i])
				break
			}
		}
	}
	if input.Limit > 0 && len(records) > input.Limit {
		records = records[:input.Limit]
	}

	output := LookupOutput{
		Domain:  string(d),
		Tier:    string(view.Tier),
		Count:   len(records),
		Records: make([]json.RawMessage, len(records)),
	}
	if !view.AsOf.IsZero() {
		output.AsOf = view.AsOf.UTC().Format(time.RFC3339)
	}
	for i := range records {
		output.Records[i] = records[i].Raw()
	}

	return nil, output, nil
}

// handleSync handles the sync tool invocation.
func (s *Server) handleSync(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SyncInput,
) (*mcp.CallToolResult, SyncOutput, error) {
	if input.Domain != "" {
		d, err := domain.ParseDomain(input.Domain)
		if err != nil {
			return nil, SyncOutput{}, err
		}
		res, err := s.ports.Sync.RunDomain(ctx, d)
		if err != nil {
			return nil, SyncOutput{}, fmt.Errorf("syncing %s: %w", d, err)
		}
		return nil, SyncOutput{Results: []SyncDomainOutput{domainOutput(*res)}}, nil
	}

	report, err := s.ports.Sync.RunSync(ctx)
	if err != nil {
		return nil, SyncOutput{}, fmt.Errorf("running sync: %w", err)
	}

	output := SyncOutput{RunID: report.RunID}
	for _, d := range domain.AllDomains() {
		if res, ok := report.Results[d]; ok {
			output.Results = append(output.Results, domainOutput(res))
		}
	}

	return nil, output, nil
}

func domainOutput(res domain.DomainResult) SyncDomainOutput {
	return SyncDomainOutput{
		Domain:  string(res.Domain),
		Outcome: string(res.Outcome),
		Stage:   string(res.Stage),
		Error:   res.Error,
		Records: res.Records,
		Shards:  res.Shards,
	}
}
