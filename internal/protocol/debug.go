package protocol

// DebugName is the registry name of the debug protocol.
const DebugName = "Debug"

// Debug limits.
const (
	debugCondition  = 5
	debugGender     = "f"
	debugTrainLimit = 20
	debugEvalLimit  = 10
)

// NewDebug builds a small protocol for smoke tests: SRE10 condition 5
// (female) with the usual train filter applied to MIX10 only, capped at 20 train items and
// 10 enroll and test items.
func NewDebug(src Source) (*SRE10, error) {
	p, err := NewSRE10(src, debugCondition, debugGender)
	if err != nil {
		return nil, err
	}
	p.name = DebugName
	p.train = SRE10TrainCriteria(debugGender)
	p.train.ExcludeDatabase = ""
	p.train.RestrictToDatabase = "MIX10"
	p.trainLimit = debugTrainLimit
	p.evalLimit = debugEvalLimit
	return p, nil
}
