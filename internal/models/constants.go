package models

const (
	TopicFlightRecords = "flight_records"
	TopicRunwayStats   = "runway_stats"
	TopicRunSummaries  = "run_summaries"

	OutputFormatConsole = "console"
	OutputFormatFile    = "file"
	OutputFormatCSV     = "csv"
	OutputFormatJSON    = "json"
	OutputFormatParquet = "parquet"

	OutputDestinationLocal = "local"
	OutputDestinationS3    = "s3"

	MinutesPerHour = 60.0
)
