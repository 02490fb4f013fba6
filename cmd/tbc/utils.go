// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/ziggy42/tbc/tbc"
)

const (
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorReset = "\033[0m"
)

func red(s string) string   { return colorRed + s + colorReset }
func green(s string) string { return colorGreen + s + colorReset }

// resolveModule opens source as a local path, or fetches it over HTTP(S)
// if it parses as such a URL.
func resolveModule(source string) (io.ReadCloser, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "http", "https":
		resp, err := http.Get(u.String())
		if err != nil {
			return nil, fmt.Errorf("http request failed: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected http status: %s", resp.Status)
		}
		return resp.Body, nil
	case "file":
		return os.Open(u.Path)
	default:
		return os.Open(source)
	}
}

// loadModule decodes and translates a single WebAssembly binary from path
// into a fresh Environment, returning both.
func loadModule(path, name string) (*tbc.Environment, *tbc.Module, error) {
	r, err := resolveModule(path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	env := tbc.NewEnvironment()
	mod, err := tbc.Translate(r, env, name, tbc.DefaultConfig(), nil)
	if err != nil {
		return nil, nil, err
	}
	return env, mod, nil
}

// parseArgs converts raw command-line argument strings into the Go values
// Invoke expects, using the export's declared parameter types.
func parseArgs(raw []string, paramTypes []tbc.ValueType) ([]any, error) {
	if len(raw) != len(paramTypes) {
		return nil, fmt.Errorf("argument count mismatch: expected %d, got %d", len(paramTypes), len(raw))
	}
	args := make([]any, len(paramTypes))
	for i, t := range paramTypes {
		v, err := parseArg(raw[i], t)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args[i] = v
	}
	return args, nil
}

func parseArg(raw string, t tbc.ValueType) (any, error) {
	switch t {
	case tbc.I32:
		v, err := strconv.ParseInt(raw, 10, 32)
		return int32(v), err
	case tbc.I64:
		return strconv.ParseInt(raw, 10, 64)
	case tbc.F32:
		v, err := strconv.ParseFloat(raw, 32)
		return float32(v), err
	case tbc.F64:
		return strconv.ParseFloat(raw, 64)
	default:
		return nil, fmt.Errorf("unsupported value type: %v", t)
	}
}
