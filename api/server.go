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
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emberfield/faultwise/core"
)

// NewRouter builds the query API over an index. All routes are read-only
// and CORS-open so browser frontends can consume them directly.
func NewRouter(idx *Index) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "faultwise",
			"entries": idx.Len(),
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"entries": idx.Len(),
		})
	})

	router.GET("/makers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"makers": idx.Makers()})
	})

	router.GET("/models/:maker", func(c *gin.Context) {
		maker := c.Param("maker")
		c.JSON(http.StatusOK, gin.H{
			"maker":  maker,
			"models": idx.Models(maker),
		})
	})

	router.GET("/faults/:maker/:model", func(c *gin.Context) {
		maker := c.Param("maker")
		model := c.Param("model")
		c.JSON(http.StatusOK, gin.H{
			"maker":  maker,
			"model":  model,
			"faults": idx.Faults(maker, model),
		})
	})

	router.GET("/fault/:maker/:model/:code", func(c *gin.Context) {
		fault, err := idx.Fault(c.Param("maker"), c.Param("model"), c.Param("code"))
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Fault not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, fault)
	})

	return router
}
