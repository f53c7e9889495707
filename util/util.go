package util

import (
	"bytes"
	"strings"
)

// return a string like a.b.c
func BuildDotString(strings ...string) string {
	bf := bytes.Buffer{}
	for _, str := range strings {
		if str == "" {
			continue
		}
		bf.WriteString(str)
		bf.WriteString(".")
	}
	ret := bf.String()
	loc := len(ret)
	for loc >= 1 && loc-1 < len(ret) && ret[loc-1] == '.' {
		loc--
	}
	return ret[0:loc]
}

// ExactlyValue strips the quoting of an identifier: `name`, [name], "name" and 'name' all become name.
func ExactlyValue(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	switch {
	case first == '`' && last == '`', first == '[' && last == ']',
		first == '"' && last == '"', first == '\'' && last == '\'':
		return value[1 : len(value)-1]
	}
	return value
}

// EqualIdentifier compares two identifiers ignoring quoting and case.
func EqualIdentifier(a, b string) bool {
	return strings.EqualFold(ExactlyValue(a), ExactlyValue(b))
}
