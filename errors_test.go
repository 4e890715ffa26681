package lazyjson

import (
	"errors"
	"reflect"
	"testing"
)

func TestUnexpectedTokenErrorMessage(t *testing.T) {
	e := &UnexpectedTokenError{Line: 2, Column: 5, Byte: 'x', Reason: "not a value start"}
	msg := e.Error()
	if msg == "" {
		t.Fatal("expected non-empty message")
	}
	var target *UnexpectedTokenError
	if !errors.As(e, &target) {
		t.Error("errors.As failed to match *UnexpectedTokenError")
	}
}

func TestDecodingErrorPathString(t *testing.T) {
	e := &DecodingError{Expected: reflect.TypeOf(0), Path: []string{"a", "b"}}
	msg := e.Error()
	want := "lazyjson: cannot decode value at $.a.b as int"
	if msg != want {
		t.Errorf("Error() = %q, want %q", msg, want)
	}
}

func TestDecodingErrorPathStringEmpty(t *testing.T) {
	e := &DecodingError{Expected: reflect.TypeOf(0)}
	want := "lazyjson: cannot decode value at $ as int"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
}

func TestTypeConversionErrorMessage(t *testing.T) {
	e := &TypeConversionError{From: "int64", To: "int8"}
	if e.Error() == "" {
		t.Fatal("expected non-empty message")
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrMissingData, ErrInvalidLiteral, ErrInvalidTopLevel,
		ErrEndOfObject, ErrEndOfArray, ErrExpectedObject, ErrExpectedArray,
		ErrMissingKeyedContainer, ErrMissingUnkeyedContainer, ErrMissingSuperDecoder,
		ErrKeyNotFound, ErrUnknownStrategy, ErrExists, ErrNoSnapshot,
		ErrHistoryDisabled, ErrUnclosedContainer,
	}
	seen := map[string]bool{}
	for _, e := range sentinels {
		if seen[e.Error()] {
			t.Errorf("duplicate sentinel message: %q", e.Error())
		}
		seen[e.Error()] = true
	}
}

func TestInvalidValueErrors(t *testing.T) {
	cases := []error{
		&InvalidDateError{Value: "x"},
		&InvalidDataError{Value: "x"},
		&InvalidURLError{Value: "x"},
		&InvalidDecimalError{Value: "x"},
	}
	for _, e := range cases {
		if e.Error() == "" {
			t.Errorf("%T: expected non-empty message", e)
		}
	}
}
