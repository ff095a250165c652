package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"text/tabwriter"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		handleAuth(args)
	case "incidents":
		listIncidents(args)
	case "warnings":
		listRecords("/warnings")
	case "bans":
		listRecords("/bans")
	case "stats":
		showStats()
	case "report":
		incidentReport(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: venueguard auth <login|logout|who>")
		return
	}

	switch args[0] {
	case "login":
		loginUser(args[1:])
	case "logout":
		os.Remove(tokenFile())
		fmt.Println("✓ Logged out")
	case "who":
		whoAmI()
	default:
		fmt.Printf("unknown auth command: %s\n", args[0])
	}
}

func loginUser(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "user email")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: email and password are required")
		fs.PrintDefaults()
		return
	}

	var result struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	if err := call(http.MethodPost, "/auth/login", map[string]string{"email": *email, "password": *password}, &result); err != nil {
		fmt.Printf("✗ Login failed: %v\n", err)
		return
	}
	if err := saveToken(result.Token); err != nil {
		fmt.Printf("✗ Could not store token: %v\n", err)
		return
	}
	fmt.Printf("✓ Logged in as %s (%s)\n", result.User.Username, result.User.Role)
}

func whoAmI() {
	var me struct {
		Username string   `json:"username"`
		Email    string   `json:"email"`
		Role     string   `json:"role"`
		Venues   []string `json:"venues"`
	}
	if err := call(http.MethodGet, "/auth/me", nil, &me); err != nil {
		fmt.Printf("✗ %v\n", err)
		return
	}
	fmt.Printf("%s <%s> role=%s venues=%d\n", me.Username, me.Email, me.Role, len(me.Venues))
}

func listIncidents(args []string) {
	fs := flag.NewFlagSet("incidents", flag.ExitOnError)
	venue := fs.String("venue", "", "only incidents at this venue id")
	fs.Parse(args)

	path := "/incidents"
	if *venue != "" {
		path = "/incidents/venue/" + *venue
	}

	var incidents []struct {
		ID          string `json:"id"`
		Date        string `json:"date"`
		Description string `json:"description"`
		Venue       *struct {
			Name string `json:"name"`
		} `json:"venue"`
	}
	if err := call(http.MethodGet, path, nil, &incidents); err != nil {
		fmt.Printf("✗ %v\n", err)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tVENUE\tDESCRIPTION")
	for _, i := range incidents {
		venueName := "-"
		if i.Venue != nil {
			venueName = i.Venue.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", i.ID, i.Date, venueName, i.Description)
	}
	w.Flush()
}

// listRecords prints warnings or bans, which share the offender and date columns
func listRecords(path string) {
	var records []struct {
		ID       string `json:"id"`
		Date     string `json:"date"`
		Offender *struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
		} `json:"offender"`
	}
	if err := call(http.MethodGet, path, nil, &records); err != nil {
		fmt.Printf("✗ %v\n", err)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tOFFENDER")
	for _, r := range records {
		name := "-"
		if r.Offender != nil {
			name = r.Offender.FirstName + " " + r.Offender.LastName
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Date, name)
	}
	w.Flush()
}

func showStats() {
	var stats map[string]int
	if err := call(http.MethodGet, "/dashboard/stats", nil, &stats); err != nil {
		fmt.Printf("✗ %v\n", err)
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, k := range []string{"totalIncidents", "totalWarnings", "totalBans", "totalVenues"} {
		fmt.Fprintf(w, "%s\t%d\n", k, stats[k])
	}
	w.Flush()
}

func incidentReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	from := fs.String("from", "", "start date (YYYY-MM-DD)")
	to := fs.String("to", "", "end date (YYYY-MM-DD), inclusive")
	fs.Parse(args)

	var report struct {
		TotalIncidents int `json:"totalIncidents"`
		Incidents      []struct {
			Date        string `json:"date"`
			Description string `json:"description"`
			Venue       string `json:"venue"`
			SubmittedBy string `json:"submittedBy"`
		} `json:"incidents"`
	}
	if err := call(http.MethodPost, "/reports/incidents", map[string]string{"startDate": *from, "endDate": *to}, &report); err != nil {
		fmt.Printf("✗ %v\n", err)
		return
	}

	fmt.Printf("%d incidents between %s and %s\n", report.TotalIncidents, *from, *to)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tVENUE\tSUBMITTED BY\tDESCRIPTION")
	for _, i := range report.Incidents {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", i.Date, i.Venue, i.SubmittedBy, i.Description)
	}
	w.Flush()
}

// call sends a JSON request to the API and decodes a successful response into out
func call(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, getAPIURL()+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := loadToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%s (%d %s)", apiErr.Error, resp.StatusCode, apiErr.Code)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func getAPIURL() string {
	if url := os.Getenv("VENUEGUARD_API"); url != "" {
		return url
	}
	return "http://localhost:8080/api"
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".venueguard", "token")
}

func saveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(tokenFile()), 0700); err != nil {
		return err
	}
	return os.WriteFile(tokenFile(), []byte(token), 0600)
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return string(data)
}

func printUsage() {
	fmt.Print(`venueguard CLI

Usage:
  venueguard <command> [options]

Commands:
  auth       Authentication (login, logout, who)
  incidents  List incidents you can see (-venue <id> for one venue)
  warnings   List warnings you can see
  bans       List bans you can see
  stats      Show dashboard statistics
  report     Incident report for a date range (-from, -to) - managers and admins
  help       Show this help message

Environment Variables:
  VENUEGUARD_API    API endpoint (default: http://localhost:8080/api)

Examples:
  venueguard auth login -email staff@example.com -password staffpassword
  venueguard incidents
  venueguard report -from 2024-05-01 -to 2024-05-31
`)
}
