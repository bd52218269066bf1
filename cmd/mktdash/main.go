// Command mktdash is the command line front end of the marketing analytics service.
package main

func main() {
	Execute()
}
