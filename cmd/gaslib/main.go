// cmd/gaslib/main.go
package main

func main() {
	Execute()
}
