package sema

import (
	"testing"

	"solfront/internal/diag"
)

func parseDocsForTest(t *testing.T, src string) (*DocIndex, *diag.Bag, bool) {
	t.Helper()
	bag := diag.NewBag(32)
	docs, ok := ParseDocstrings(parseForTest(t, src), diag.BagReporter{Bag: bag})
	return docs, bag, ok
}

func TestDocTagsParsed(t *testing.T) {
	src := `pragma solidity 0.8.0;
/// @title Greeter
/// @notice Says hello to callers.
contract Greeter {
    /// @notice Greets.
    /// @param who target address
    /// @return the greeting counter
    function greet(address who) public view returns (uint256) {
        return 1;
    }
}
`
	docs, bag, ok := parseDocsForTest(t, src)
	if !ok {
		t.Fatalf("docstrings rejected: %v", bag.Items())
	}
	if len(docs.Entries) != 2 {
		t.Fatalf("documented declarations = %d", len(docs.Entries))
	}
	var fnTags []DocTag
	for _, tags := range docs.Entries {
		if len(tags) == 3 {
			fnTags = tags
		}
	}
	if fnTags == nil {
		t.Fatalf("function tags not found: %v", docs.Entries)
	}
	if fnTags[1].Name != "param" || fnTags[1].Arg != "who" {
		t.Fatalf("param tag = %+v", fnTags[1])
	}
}

func TestUntaggedLeadingTextIsNotice(t *testing.T) {
	src := `pragma solidity 0.8.0;
/// Just a plain description.
contract C {}
`
	docs, _, ok := parseDocsForTest(t, src)
	if !ok {
		t.Fatalf("plain docstring rejected")
	}
	for _, tags := range docs.Entries {
		if len(tags) != 1 || tags[0].Name != "notice" {
			t.Fatalf("tags = %+v", tags)
		}
	}
}

func TestUnknownAndMalformedTags(t *testing.T) {
	src := `pragma solidity 0.8.0;
/// @banana yellow
contract C {
    /// @param
    function f(uint256 a) public {}
}
`
	_, bag, ok := parseDocsForTest(t, src)
	if ok {
		t.Fatalf("bad tags accepted")
	}
	if !hasCode(bag, diag.DocUnknownTag) || !hasCode(bag, diag.DocMalformedTag) {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestTagContextRules(t *testing.T) {
	src := `pragma solidity 0.8.0;
/// @param who nope
contract C {}
`
	_, bag, ok := parseDocsForTest(t, src)
	if ok || !hasCode(bag, diag.DocTagNotAllowed) {
		t.Fatalf("@param on a contract accepted: %v", bag.Items())
	}
}

func TestValidateParamAndReturnCounts(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    /// @param missing not a parameter
    /// @return one
    /// @return two
    function f(uint256 a) public pure returns (uint256) {
        return a;
    }
}
`
	u := parseForTest(t, src)
	bag := diag.NewBag(32)
	r := diag.BagReporter{Bag: bag}
	docs, ok := ParseDocstrings(u, r)
	if !ok {
		t.Fatalf("parse stage rejected: %v", bag.Items())
	}
	if ValidateDocstrings(u, docs, r) {
		t.Fatalf("validation passed")
	}
	if !hasCode(bag, diag.DocParamUnknown) || !hasCode(bag, diag.DocReturnCount) {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}
