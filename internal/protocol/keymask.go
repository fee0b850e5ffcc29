package protocol

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Trial labels stored in a keymask.
const (
	LabelUntested  int8 = -1
	LabelNonTarget int8 = 0
	LabelTarget    int8 = 1
)

// KeyMask holds the trial labels between enroll and test segments.
type KeyMask struct {
	Enroll []string `json:"enroll"`
	Test   []string `json:"test"`
	Labels [][]int8 `json:"labels"`

	enrollIndex map[string]int
	testIndex   map[string]int
}

// ReadKeyMask parses a whitespace matrix with one row per enroll segment
// and one column per test segment.
func ReadKeyMask(r io.Reader, enroll, test []string) (*KeyMask, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	labels := make([][]int8, 0, len(enroll))
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != len(test) {
			return nil, fmt.Errorf("keymask line %d: got %d columns, want %d", line, len(fields), len(test))
		}
		row := make([]int8, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseInt(f, 10, 8)
			if err != nil || v < -1 || v > 1 {
				return nil, fmt.Errorf("keymask line %d column %d: invalid label %q", line, i+1, f)
			}
			row[i] = int8(v)
		}
		labels = append(labels, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read keymask: %w", err)
	}
	if len(labels) != len(enroll) {
		return nil, fmt.Errorf("keymask has %d rows, want %d", len(labels), len(enroll))
	}

	km := &KeyMask{
		Enroll: append([]string(nil), enroll...),
		Test:   append([]string(nil), test...),
		Labels: labels,
	}
	km.buildIndex()
	return km, nil
}

func readKeyMaskFile(path string, enroll, test []string) (*KeyMask, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keymask: %w", err)
	}
	defer file.Close()
	km, err := ReadKeyMask(file, enroll, test)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return km, nil
}

func (k *KeyMask) buildIndex() {
	k.enrollIndex = make(map[string]int, len(k.Enroll))
	for i, name := range k.Enroll {
		k.enrollIndex[name] = i
	}
	k.testIndex = make(map[string]int, len(k.Test))
	for i, name := range k.Test {
		k.testIndex[name] = i
	}
}

// Label returns the trial label for an enroll/test pair.
func (k *KeyMask) Label(enroll, test string) (int8, bool) {
	if k.enrollIndex == nil {
		k.buildIndex()
	}
	i, ok := k.enrollIndex[enroll]
	if !ok {
		return 0, false
	}
	j, ok := k.testIndex[test]
	if !ok {
		return 0, false
	}
	return k.Labels[i][j], true
}

// KeyMaskCounts summarises a keymask.
type KeyMaskCounts struct {
	Target    int `json:"target"`
	NonTarget int `json:"nontarget"`
	Untested  int `json:"untested"`
}

// Counts tallies the labels by kind.
func (k *KeyMask) Counts() KeyMaskCounts {
	var c KeyMaskCounts
	for _, row := range k.Labels {
		for _, v := range row {
			switch v {
			case LabelTarget:
				c.Target++
			case LabelNonTarget:
				c.NonTarget++
			default:
				c.Untested++
			}
		}
	}
	return c
}

// Head returns the top-left corner of the keymask with at most nEnroll rows
// and nTest columns.
func (k *KeyMask) Head(nEnroll, nTest int) *KeyMask {
	nEnroll = min(nEnroll, len(k.Enroll))
	nTest = min(nTest, len(k.Test))
	labels := make([][]int8, nEnroll)
	for i := range labels {
		labels[i] = append([]int8(nil), k.Labels[i][:nTest]...)
	}
	out := &KeyMask{
		Enroll: append([]string(nil), k.Enroll[:nEnroll]...),
		Test:   append([]string(nil), k.Test[:nTest]...),
		Labels: labels,
	}
	out.buildIndex()
	return out
}
