// Package psplib reads single-mode RCPSP instances in the PSPLIB ".sm"
// layout into a model.Instance.
package psplib

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kilianp07/rcpsp/core/model"
)

const (
	markerPrecedence = "PRECEDENCE RELATIONS"
	markerRequests   = "REQUESTS/DURATIONS"
	markerResources  = "RESOURCEAVAILABILITIES"
	separator        = "************************************************************************"
)

type section int

const (
	sectionNone section = iota
	sectionPrecedence
	sectionRequests
	sectionResources
)

// Parser decodes instance files. The zero value drops successor references
// outside [1, n_jobs]; Strict turns them into errors instead.
type Parser struct {
	Strict bool
}

// ParseFile parses the file at path with the lenient parser.
func ParseFile(path string) (*model.Instance, error) {
	return Parser{}.ParseFile(path)
}

// ParseFile opens path and parses it. Open and read failures are returned
// as *ParseError.
func (p Parser) ParseFile(path string) (*model.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Msg: "cannot open", Err: err}
	}
	defer func() { _ = f.Close() }()
	inst, err := p.parse(f, path)
	if err != nil {
		return nil, err
	}
	inst.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return inst, nil
}

// Parse reads an instance from r.
func (p Parser) Parse(r io.Reader) (*model.Instance, error) {
	return p.parse(r, "")
}

type rawInstance struct {
	successors map[int][]int
	durations  map[int]int
	usage      map[int][]int
	capacities []int
	horizon    int
}

//gocyclo:ignore
func (p Parser) parse(r io.Reader, path string) (*model.Instance, error) {
	raw := rawInstance{
		successors: make(map[int][]int),
		durations:  make(map[int]int),
		usage:      make(map[int][]int),
	}
	state := sectionNone
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		fail := func(msg string, err error) error {
			return &ParseError{Path: path, Line: lineNo, Msg: msg, Err: err}
		}
		switch {
		case strings.Contains(line, markerPrecedence):
			state = sectionPrecedence
		case strings.Contains(line, markerRequests):
			state = sectionRequests
		case strings.Contains(line, markerResources):
			state = sectionResources
		case strings.Contains(line, separator):
			state = sectionNone
		case strings.TrimSpace(line) == "":
		case state == sectionNone:
			if h, ok := headerValue(line, "horizon"); ok {
				raw.horizon = h
			}
		case state == sectionPrecedence:
			if strings.Contains(line, "jobnr.") || strings.Contains(line, "----") {
				continue
			}
			nums, err := ints(line)
			if err != nil {
				return nil, fail("precedence row", err)
			}
			if len(nums) < 3 {
				return nil, fail(fmt.Sprintf("precedence row has %d fields, want at least 3", len(nums)), nil)
			}
			job, count := nums[0], nums[2]
			if count < 0 || len(nums) < 3+count {
				return nil, fail(fmt.Sprintf("job %d announces %d successors but lists %d", job, count, len(nums)-3), nil)
			}
			raw.successors[job] = append([]int(nil), nums[3:3+count]...)
		case state == sectionRequests:
			if strings.Contains(line, "jobnr.") || strings.Contains(line, "---") {
				continue
			}
			nums, err := ints(line)
			if err != nil {
				return nil, fail("request row", err)
			}
			if len(nums) < 3 {
				return nil, fail(fmt.Sprintf("request row has %d fields, want at least 3", len(nums)), nil)
			}
			job := nums[0]
			raw.durations[job] = nums[2]
			raw.usage[job] = append([]int(nil), nums[3:]...)
		case state == sectionResources:
			if strings.Contains(line, "R ") {
				continue
			}
			nums, err := ints(line)
			if err != nil {
				return nil, fail("resource availability row", err)
			}
			raw.capacities = append(raw.capacities, nums...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Path: path, Line: lineNo, Msg: "read failed", Err: err}
	}
	return p.build(raw, path)
}

func (p Parser) build(raw rawInstance, path string) (*model.Instance, error) {
	resources := make([]model.Resource, len(raw.capacities))
	for i, c := range raw.capacities {
		resources[i] = model.Resource{Capacity: c}
	}

	ids := make([]int, 0, len(raw.durations))
	for id := range raw.durations {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	nJobs := len(ids)

	var dropped []model.Arc
	tasks := make([]model.Task, 0, nJobs)
	for _, id := range ids {
		var succ []int
		for _, s := range raw.successors[id] {
			if s < 1 || s > nJobs {
				if p.Strict {
					return nil, &ParseError{Path: path, Msg: fmt.Sprintf("job %d: successor %d out of range [1, %d]", id, s, nJobs)}
				}
				dropped = append(dropped, model.Arc{From: id, To: s})
				continue
			}
			succ = append(succ, s)
		}
		tasks = append(tasks, model.Task{
			ID:         id,
			Duration:   raw.durations[id],
			Successors: succ,
			Resources:  raw.usage[id],
		})
	}

	inst := model.NewInstance("", tasks, resources)
	inst.Horizon = raw.horizon
	inst.DroppedSuccessors = dropped
	inst.LinkPredecessors()
	if err := inst.Validate(); err != nil {
		return nil, &ParseError{Path: path, Msg: "invalid instance", Err: err}
	}
	return inst, nil
}

func ints(line string) ([]int, error) {
	fields := strings.Fields(line)
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// headerValue extracts the integer after the colon of a "key : value" line.
func headerValue(line, key string) (int, bool) {
	k, v, ok := strings.Cut(line, ":")
	if !ok || !strings.HasPrefix(strings.TrimSpace(k), key) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}
