package tools

import (
	"github.com/quarrybot/quarrybot/internal/schema"
)

// ToolName is the canonical name of a built-in tool.
type ToolName string

const (
	ToolArXivSearch        ToolName = "arxiv_search"
	ToolPaperSearch        ToolName = "ss_paper_search"
	ToolPaperBulkSearch    ToolName = "ss_paper_bulk_search"
	ToolPaperTitleMatch    ToolName = "ss_paper_title_match"
	ToolPaperAutocomplete  ToolName = "ss_paper_autocomplete"
	ToolPaperDetails       ToolName = "ss_paper_details"
	ToolPaperAuthors       ToolName = "ss_paper_authors"
	ToolPaperCitations     ToolName = "ss_paper_citations"
	ToolPaperReferences    ToolName = "ss_paper_references"
	ToolPaperBatch         ToolName = "ss_paper_batch"
	ToolAuthorSearch       ToolName = "ss_author_search"
	ToolAuthorDetails      ToolName = "ss_author_details"
	ToolAuthorPapers       ToolName = "ss_author_papers"
	ToolAuthorBatch        ToolName = "ss_author_batch"
	ToolSnippetSearch      ToolName = "ss_snippet_search"
	ToolRORSearch          ToolName = "ror_search"
	ToolRORAdvancedSearch  ToolName = "ror_advanced_search"
	ToolRORAffiliation     ToolName = "ror_affiliation"
	ToolCongressBills      ToolName = "congress_bills"
	ToolCongressBill       ToolName = "congress_bill"
	ToolCongressLaws       ToolName = "congress_laws"
	ToolCongressAmendments ToolName = "congress_amendments"
	ToolCongressSummaries  ToolName = "congress_summaries"
	ToolCongressInfo       ToolName = "congress_info"
	ToolCongressMembers    ToolName = "congress_members"
	ToolCongressCommittees ToolName = "congress_committees"
	ToolCongressCommittee  ToolName = "congress_committee"
	ToolCongressReports    ToolName = "congress_reports"
	ToolCongressPrints     ToolName = "congress_prints"
	ToolCongressMeetings   ToolName = "congress_meetings"
	ToolCongressHearings   ToolName = "congress_hearings"
	ToolCongressRecord     ToolName = "congress_record"
	ToolCongressDailyRec   ToolName = "congress_daily_record"
	ToolCongressComms      ToolName = "congress_communications"
	ToolCongressReqs       ToolName = "congress_requirements"
	ToolCongressNomination ToolName = "congress_nominations"
	ToolCongressCRSReports ToolName = "congress_crs_reports"
	ToolCongressTreaties   ToolName = "congress_treaties"
	ToolMarketData         ToolName = "market_data"
	ToolCurrentDatetime    ToolName = "current_datetime"
)

// Registry holds a set of named tools and exposes them for execution.
type Registry struct {
	tools map[string]schema.Tool
}

// GetTool returns the tool with the given name, or nil.
func (r *Registry) GetTool(name ToolName) schema.Tool {
	return r.tools[string(name)]
}

func (r *Registry) AllTools() ToolList {
	list := ToolList{tools: make(map[string]schema.Tool, len(r.tools))}
	for k, t := range r.tools {
		list.tools[k] = t
	}
	return list
}
