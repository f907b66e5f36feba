package importer

import (
	"fmt"
	"regexp"
	"time"

	"github.com/cleared-dev/nlbank/internal/model"
)

const fileDateLayout = "2006-01-02"

// Match is the result of an importer claiming a file.
type Match struct {
	Account model.Account
	EndDate time.Time
}

// FileDate returns the statement end date embedded in the filename.
func (m Match) FileDate() time.Time { return m.EndDate }

// FileAccount returns the ledger account that owns the statement.
func (m Match) FileAccount() string { return m.Account.Ledger }

type fileMatcher struct {
	account model.Account
	re      *regexp.Regexp
	id      int
	endDate int
}

func compileMatchers(accts []model.Account) ([]fileMatcher, error) {
	var matchers []fileMatcher
	for _, a := range accts {
		if a.FileMatch == "" {
			continue
		}
		re, err := regexp.Compile(a.FileMatch)
		if err != nil {
			return nil, fmt.Errorf("account %s: compiling file_match: %w", a.Ledger, err)
		}
		m := fileMatcher{account: a, re: re, id: re.SubexpIndex("id"), endDate: re.SubexpIndex("end_date")}
		if m.id < 0 || m.endDate < 0 {
			return nil, fmt.Errorf("account %s: file_match needs named groups id and end_date", a.Ledger)
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

func identify(matchers []fileMatcher, path string) (Match, bool) {
	for _, m := range matchers {
		sub := m.re.FindStringSubmatch(path)
		if sub == nil || !m.owns(sub[m.id]) {
			continue
		}
		end, err := time.Parse(fileDateLayout, sub[m.endDate])
		if err != nil {
			continue
		}
		return Match{Account: m.account, EndDate: end}, true
	}
	return Match{}, false
}

func (m fileMatcher) owns(id string) bool {
	if id == m.account.ExternalID {
		return true
	}
	for _, alias := range m.account.Aliases {
		if id == alias || alias == model.ScopedKey(m.account.Institution, id) {
			return true
		}
	}
	return false
}
