package searcher

const (
	DEFAULT_COUNT          = 10
	MAX_COUNT              = 100
	DEFAULT_CANDIDATE_POOL = 100
)
