package handlers

// @title Card Classifier API
// @version 1.0
// @description Returns typed response cards (text, options or json) for front-end renderers

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api

// @tag.name classifier
// @tag.description Response card selection

// @tag.name health
// @tag.description Service status
