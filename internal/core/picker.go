package core

import "strings"

// BranchColumnCandidates are the column names recognised as a branch code,
// highest priority first. Matching is on the upper-cased column name.
var BranchColumnCandidates = []string{"BRCD", "SOL", "BRANCH", "CHI_NHANH", "MA_CN", "BR_CODE"}

// PickColumn proposes the default filter column. The earliest candidate in
// BranchColumnCandidates wins regardless of where it sits in columns; with no
// match the first column is returned.
func PickColumn(columns []string) (string, error) {
	if len(columns) == 0 {
		return "", ErrEmptyColumnSet
	}

	for _, candidate := range BranchColumnCandidates {
		for _, col := range columns {
			if strings.ToUpper(col) == candidate {
				return col, nil
			}
		}
	}
	return columns[0], nil
}
