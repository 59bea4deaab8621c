// Package main is the entry point for the globalprint CLI.
package main

import "github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/cli"

func main() {
	cli.Execute()
}
