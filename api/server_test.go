// Copyright 2026 Emberfield Systems
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


package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfield/faultwise/core"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testIndex() *Index {
	return NewIndex([]*core.Fault{
		{
			Maker:         "Vaillant",
			Model:         "ecoTEC",
			ErrorCode:     "F28",
			PossibleCause: "Gas supply issue",
			AIOverview:    "Ignition failure overview",
		},
		{
			Maker:         "Vaillant",
			Model:         "ecoTEC",
			ErrorCode:     "F75",
			PossibleCause: "Pump or sensor fault",
		},
		{
			Maker:         "Vaillant",
			Model:         "ecoFIT",
			ErrorCode:     "F22",
			PossibleCause: "Low water pressure",
		},
		{
			Maker:         "Worcester",
			Model:         "Greenstar",
			ErrorCode:     "EA",
			PossibleCause: "Flame not detected",
		},
	})
}

func doRequest(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestRootAndHealth(t *testing.T) {
	router := NewRouter(testIndex())

	rec, body := doRequest(t, router, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "faultwise", body["service"])
	assert.EqualValues(t, 4, body["entries"])

	rec, body = doRequest(t, router, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 4, body["entries"])
}

func TestMakers(t *testing.T) {
	_, body := doRequest(t, NewRouter(testIndex()), "/makers")
	assert.Equal(t, []any{"Vaillant", "Worcester"}, body["makers"])
}

func TestModels(t *testing.T) {
	router := NewRouter(testIndex())

	rec, body := doRequest(t, router, "/models/Vaillant")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Vaillant", body["maker"])
	assert.Equal(t, []any{"ecoFIT", "ecoTEC"}, body["models"])

	// Unknown maker is an empty list, not an error.
	rec, body = doRequest(t, router, "/models/Nobody")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["models"])
}

func TestFaultList(t *testing.T) {
	rec, body := doRequest(t, NewRouter(testIndex()), "/faults/Vaillant/ecoTEC")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ecoTEC", body["model"])

	faults, ok := body["faults"].([]any)
	require.True(t, ok)
	require.Len(t, faults, 2)
	first := faults[0].(map[string]any)
	assert.Equal(t, "F28", first["code"])
	assert.Equal(t, "Gas supply issue", first["description"])
}

func TestFaultDetail(t *testing.T) {
	router := NewRouter(testIndex())

	rec, body := doRequest(t, router, "/fault/Vaillant/ecoTEC/F28")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "F28", body["error_code"])
	assert.Equal(t, "Ignition failure overview", body["ai_overview"])

	rec, body = doRequest(t, router, "/fault/Vaillant/ecoTEC/F99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Fault not found", body["error"])
}

func TestEscapedPathSegments(t *testing.T) {
	idx := NewIndex([]*core.Fault{
		{Maker: "Ideal", Model: "Logic Max", ErrorCode: "L2", PossibleCause: "Flame loss"},
	})
	router := NewRouter(idx)

	rec, body := doRequest(t, router, "/faults/Ideal/Logic%20Max")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logic Max", body["model"])
	faults := body["faults"].([]any)
	require.Len(t, faults, 1)
}
