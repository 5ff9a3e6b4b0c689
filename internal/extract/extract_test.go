package extract

import (
	"reflect"
	"testing"
)

func TestExtract_Python(t *testing.T) {
	content := `import os
import sys, json as j
from utils.helpers import format_date
from . import sibling
from ..models import User

def main():
    import runtime_only
`
	r := NewRegistry()
	got := r.Extract(content, ".py")
	want := []string{".", "..models", "json", "os", "runtime_only", "sys", "utils.helpers"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_PythonAliasAndComment(t *testing.T) {
	content := `import numpy as np  # numerical work
import pandas as pd`
	r := NewRegistry()
	got := r.Extract(content, ".py")
	want := []string{"numpy", "pandas"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_JavaScript(t *testing.T) {
	content := `import React from 'react';
import { useState } from "react";
import './styles.css';
const fs = require('fs');
const mod = await import('./lazy.js');
export { helper } from '../shared/helper';
`
	r := NewRegistry()
	got := r.Extract(content, ".ts")
	want := []string{"../shared/helper", "./lazy.js", "./styles.css", "fs", "react"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_DeduplicatesAndSorts(t *testing.T) {
	content := `import b
import a
import b`
	r := NewRegistry()
	got := r.Extract(content, ".py")
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	r := NewRegistry()
	if got := r.Extract("import whatever", ".rb"); got != nil {
		t.Errorf("expected nil for unsupported extension, got %v", got)
	}
	if r.Supported(".rb") {
		t.Error("expected .rb to be unsupported")
	}
	if !r.Supported(".PY") {
		t.Error("expected extension lookup to be case-insensitive")
	}
}

func TestExtract_EmptyContent(t *testing.T) {
	r := NewRegistry()
	if got := r.Extract("", ".py"); got != nil {
		t.Errorf("expected nil for empty content, got %v", got)
	}
}
