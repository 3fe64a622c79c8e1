package mcp

import (
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name: "list_horses",
		Description: "List every horse with recorded race or training history. " +
			"Guidance: Call this first to discover valid horse_id values for the analysis tools.",
	}, s.handleListHorses)

	sdk.AddTool(s.server, &sdk.Tool{
		Name: "analyze_horse_trend",
		Description: "Analyze one horse's welfare trend: filtered events with percentage changes, risk categories, " +
			"per-category statistics (mean, standard deviation, z-score, regression slope, correlations) and derived alerts. \n\n" +
			"Risk categories run from 1 (Minimal) to 5 (Critical) and are derived from the wellness score (higher is worse). " +
			"Performance scores are higher-is-better. \n" +
			"STRICT GUARDRAIL: Report alerts exactly as returned. Do NOT infer veterinary diagnoses from the scores.",
	}, s.handleAnalyzeTrend)

	sdk.AddTool(s.server, &sdk.Tool{
		Name: "get_event_history",
		Description: "Return a horse's events newest first, as shown in a history table, with percentage change versus the previous row. " +
			"Guidance: Use 'export_history' if the user wants a file.",
	}, s.handleHistory)

	sdk.AddTool(s.server, &sdk.Tool{
		Name: "classify_risk",
		Description: "Classify wellness readings into risk categories 1-5 with label, colour and normalized chart position. " +
			"Readings tagged scale=category are passed through; scale=raw uses thresholds 70/102/116; an empty scale treats 1-5 as already classified.",
	}, s.handleClassifyRisk)

	sdk.AddTool(s.server, &sdk.Tool{
		Name: "compute_chart_layout",
		Description: "Compute bar chart geometry (padding, bar width, spacing, per-event anchors) for a viewport. " +
			"Supply days_from_today per event for time-proportional layouts (180-day window, older events saturate at the left edge).",
	}, s.handleComputeLayout)

	sdk.AddTool(s.server, &sdk.Tool{
		Name: "inspect_chart_point",
		Description: "Resolve which event lies under a horizontal chart coordinate, using the same geometry the chart is drawn with. " +
			"Returns the event and its tooltip anchor.",
	}, s.handleInspectPoint)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "export_history",
		Description: "Export a horse's filtered history as CSV (date,type,location,distance,performanceScore,wellnessScore,welfareAlert), JSON or plain text.",
	}, s.handleExport)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "generate_report",
		Description: "Render an HTML report with an SVG trend chart, hover tooltips, category statistics and alerts. Returns the file path.",
	}, s.handleReport)

	sdk.AddTool(s.server, &sdk.Tool{
		Name: "import_events",
		Description: "Import race and training records from a JSON array or JSON Lines file. Each record is validated against the record schema; " +
			"invalid records are skipped and reported. Records without an id receive a generated one.",
	}, s.handleImport)

	sdk.AddTool(s.server, &sdk.Tool{
		Name: "analyze_fleet",
		Description: "Analyze many horses at once and rank them by current critical-risk share and alert count. " +
			"Guidance: Follow up with 'analyze_horse_trend' for the horses at the top of the list.",
	}, s.handleFleet)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "get_alert_thresholds",
		Description: "Show the significance, anomaly, correlation and alert thresholds this deployment uses.",
	}, s.handleThresholds)
}
