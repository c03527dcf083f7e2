package main

// General API documentation for swaggo. Run `swag init -g cmd/llmgate/docs.go` to generate docs.
//
// @title           llmgate API
// @version         1.0
// @description     HTTP gateway in front of a local LLM runtime (Ollama or in-process llama.cpp).
//
// @contact.name   llmgate maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
