package main

// @title           Chatbot LLM Web API
// @version         1.0
// @description     API de persistência de usuários, conversas e mensagens do chat

// @contact.name   API Support

// @host      localhost:3001
// @BasePath  /api

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: "Bearer {token}"
