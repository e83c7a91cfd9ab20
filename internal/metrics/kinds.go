package metrics

type MetricKind int

const (
	ReaderReadCalls MetricKind = iota
	ReaderReadLatency
	ReaderReadFailures
	ReaderPasswordRejections

	StagePropertiesLatency
	StageSubProjectsLatency
	StageCalendarsLatency
	StageResourcesLatency
	StageTasksLatency
	StageRelationsLatency
	StageAssignmentsLatency
	StagePresentationLatency

	StoreFixedRecords
	StoreVarEntries
	StoreDecryptedBytes
	StoreAbsorbedEntities
)
