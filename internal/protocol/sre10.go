package protocol

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"prism/internal/corpus"
	"prism/internal/language"
)

// SRE10 conditions and genders covered by the PRISM trial lists.
const (
	MinCondition = 1
	MaxCondition = 9
)

// Genders lists the gender codes used by SRE10 conditions.
var Genders = []string{"f", "m"}

// SRE10 is a speaker-recognition protocol built on one NIST SRE10
// condition: a PRISM-wide train subset and the condition's trial lists as
// the test subsets. Development subsets are empty.
type SRE10 struct {
	name      string
	src       Source
	condition int
	gender    string
	train     Criteria

	trainLimit int
	evalLimit  int
}

// NewSRE10 builds the protocol for condition 1..9 and gender f or m.
func NewSRE10(src Source, condition int, gender string) (*SRE10, error) {
	if condition < MinCondition || condition > MaxCondition {
		return nil, fmt.Errorf("sre10 condition %d out of range %d..%d", condition, MinCondition, MaxCondition)
	}
	gender = strings.ToLower(strings.TrimSpace(gender))
	if gender != "f" && gender != "m" {
		return nil, fmt.Errorf("sre10 gender %q (want f or m)", gender)
	}
	if src.Keys == nil {
		return nil, fmt.Errorf("sre10: key table is required")
	}
	return &SRE10{
		name:      SRE10Name(condition, gender),
		src:       src,
		condition: condition,
		gender:    gender,
		train:     SRE10TrainCriteria(gender),
	}, nil
}

// SRE10Name formats a protocol name such as SRE10_c05_f.
func SRE10Name(condition int, gender string) string {
	return fmt.Sprintf("SRE10_c%02d_%s", condition, gender)
}

// SRE10TrainCriteria selects English telephone speech of normal vocal
// effort longer than 100 seconds, excluding the MIX10 evaluation data.
func SRE10TrainCriteria(gender string) Criteria {
	return Criteria{
		Gender:              gender,
		Languages:           language.EnglishCodes(),
		MinNominalLength:    100,
		SpeechType:          "tel",
		ChannelType:         "phn",
		ExcludeVocalEfforts: []string{"high", "low"},
		ExcludeDatabase:     "MIX10",
	}
}

func (p *SRE10) Name() string {
	return p.name
}

// Condition returns the SRE10 condition number.
func (p *SRE10) Condition() int {
	return p.condition
}

// Gender returns the condition gender code.
func (p *SRE10) Gender() string {
	return p.gender
}

// Items returns the items of a subset.
func (p *SRE10) Items(ctx context.Context, subset Subset) ([]Item, error) {
	switch subset {
	case SubsetTrain:
		return p.src.items(ctx, p.src.Keys.Filter(p.train.Match), p.trainLimit)
	case SubsetDevEnroll, SubsetDevTest:
		return []Item{}, nil
	case SubsetTestEnroll:
		return p.trialItems(ctx, corpus.SideEnroll)
	case SubsetTestTest:
		return p.trialItems(ctx, corpus.SideTest)
	default:
		return nil, fmt.Errorf("unknown subset %q", subset)
	}
}

func (p *SRE10) trialItems(ctx context.Context, side string) ([]Item, error) {
	ids, err := p.trialIDs(side)
	if err != nil {
		return nil, err
	}
	records, err := p.src.resolve(ids)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", p.name, side, err)
	}
	return p.src.items(ctx, records, 0)
}

func (p *SRE10) trialIDs(side string) ([]string, error) {
	ids, err := ReadIDs(p.src.Layout.TrialIDsPath(p.condition, p.gender, side))
	if err != nil {
		return nil, err
	}
	if p.evalLimit > 0 && len(ids) > p.evalLimit {
		ids = ids[:p.evalLimit]
	}
	return ids, nil
}

// KeyMask reads the condition's trial labels. Rows follow the enroll id
// list and columns the test id list.
func (p *SRE10) KeyMask(ctx context.Context) (*KeyMask, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	enroll, err := ReadIDs(p.src.Layout.TrialIDsPath(p.condition, p.gender, corpus.SideEnroll))
	if err != nil {
		return nil, err
	}
	test, err := ReadIDs(p.src.Layout.TrialIDsPath(p.condition, p.gender, corpus.SideTest))
	if err != nil {
		return nil, err
	}
	km, err := readKeyMaskFile(p.src.Layout.KeyMaskPath(p.condition, p.gender), enroll, test)
	if err != nil {
		return nil, err
	}
	if p.evalLimit > 0 {
		km = km.Head(p.evalLimit, p.evalLimit)
	}
	return km, nil
}

// ReadIDs reads a trial id list, one segment name per line.
func ReadIDs(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trial ids: %w", err)
	}
	defer file.Close()

	var ids []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trial ids %s: %w", path, err)
	}
	return ids, nil
}
