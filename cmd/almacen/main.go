package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"almacen/internal/backup"
	"almacen/internal/config"
	"almacen/internal/export"
	"almacen/internal/model"
	"almacen/internal/report"
	"almacen/internal/store"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Resolve()
	if err != nil {
		logger.Fatal("resolving data paths", zap.Error(err))
	}

	log, logResult := store.OpenLog(cfg.LogFile, logger)
	if logResult == store.LoadRecovered {
		logger.Warn("global log unreadable, starting with an empty ledger",
			zap.String("path", cfg.LogFile))
	}

	inv, storeResult := store.Open(cfg.StoreFile, log)
	switch storeResult {
	case store.LoadInitialized:
		logger.Info("new inventory file created", zap.String("path", cfg.StoreFile))
	case store.LoadRecovered:
		logger.Warn("inventory file unreadable, starting empty; the file on disk is untouched until the next save",
			zap.String("path", cfg.StoreFile))
	}

	// Startup snapshot, skipped for an empty store.
	if inv.Len() > 0 {
		if err := backup.AutoSnapshot(cfg.StoreFile, cfg.BackupDir, time.Now()); err != nil {
			logger.Warn("startup backup failed", zap.Error(err))
		}
	}

	shell := &shell{
		cfg:    cfg,
		store:  inv,
		log:    log,
		logger: logger,
		in:     bufio.NewScanner(os.Stdin),
	}
	shell.run()
}

type shell struct {
	cfg    config.Config
	store  *store.Store
	log    *store.Log
	logger *zap.Logger
	in     *bufio.Scanner
}

func (sh *shell) run() {
	fmt.Println("Inventory system")
	fmt.Printf("Items: %d | Store: %s\n", sh.store.Len(), sh.cfg.StoreFile)
	fmt.Println("Type 'help' for commands.")
	fmt.Println(strings.Repeat("-", 70))

	for {
		input := sh.prompt("> ")
		cmd, args, _ := strings.Cut(strings.TrimSpace(input), " ")
		args = strings.TrimSpace(args)

		switch strings.ToLower(cmd) {
		case "":
		case "help":
			printHelp()
		case "list":
			sh.list(args)
		case "find":
			sh.find(args)
		case "show":
			sh.show(args)
		case "add":
			sh.add()
		case "edit":
			sh.edit(args)
		case "delete":
			sh.delete(args)
		case "loan":
			sh.transaction(model.ActionLoan)
		case "return":
			sh.transaction(model.ActionReturn)
		case "today":
			sh.today()
		case "employees":
			sh.employees()
		case "backup":
			sh.backup()
		case "backups":
			sh.backups(args)
		case "export":
			sh.export(args)
		case "exit", "quit":
			if sh.confirm("Close the system?") {
				return
			}
		default:
			fmt.Printf("Unknown command %q, type 'help'.\n", cmd)
		}
	}
}

func printHelp() {
	fmt.Print(`Commands:
  list [id|name|quantity|recent]   sorted inventory listing
  find <query>                     search by code or name
  show <id>                        fact sheet and full history
  add                              register a new item (confirmed)
  edit <id>                        modify an item (confirmed)
  delete <id>                      remove an item (confirmed)
  loan | return                    process a cart against an employee
  today                            today's activity, latest first
  employees                        outstanding loans per employee today
  backup                           manual snapshot of the store file
  backups [name]                   list snapshots / view one read-only
  export <inv|item|day> <xlsx|md|pdf> [id]
  exit
`)
}

func (sh *shell) prompt(label string) string {
	fmt.Print(label)
	if !sh.in.Scan() {
		return "exit"
	}
	return sh.in.Text()
}

func (sh *shell) confirm(question string) bool {
	answer := strings.ToLower(strings.TrimSpace(sh.prompt(question + " [y/N] ")))
	return answer == "y" || answer == "yes"
}

func (sh *shell) list(key string) {
	items := sh.store.List()
	if key != "" {
		store.SortItems(items, store.SortKey(key))
	}
	if len(items) == 0 {
		fmt.Println("The inventory is empty.")
		return
	}
	now := time.Now()
	fmt.Printf("%-4s %-10s %-30s %5s  %-8s %-10s %s\n",
		"ID", "CODE", "NAME", "QTY", "LOC", "STOCK", "STATUS TODAY")
	for _, item := range items {
		fmt.Printf("%-4s %-10s %-30s %5d  %-8s %-10s %s\n",
			item.ID, item.Code, clip(item.Name, 30), item.Quantity,
			item.Location, item.Stock(), item.StatusToday(now))
	}
}

// find implements the required zero/one/many branching: no match is an
// error, a single match is shown directly, several go to a pick list.
func (sh *shell) find(query string) {
	if query == "" {
		fmt.Println("Enter a code or name to search for.")
		return
	}
	matches := sh.store.Find(query)
	switch len(matches) {
	case 0:
		fmt.Printf("Nothing found for %q.\n", query)
	case 1:
		sh.show(matches[0].ID)
	default:
		fmt.Printf("%d matches:\n", len(matches))
		for _, item := range matches {
			fmt.Printf("  [%s] %s (stock: %d, id %s)\n", item.Code, item.Name, item.Quantity, item.ID)
		}
	}
}

func (sh *shell) show(id string) {
	item := sh.store.Get(id)
	if item == nil {
		fmt.Printf("Item %s not found.\n", id)
		return
	}
	fmt.Println("--- FACT SHEET ---")
	fmt.Printf("ID: %s | CODE: %s | NAME: %s | LOCATION: %s\n", item.ID, item.Code, item.Name, item.Location)
	fmt.Printf("STOCK: %d (%s)\nDESCRIPTION: %s\n", item.Quantity, item.Stock(), item.Description)
	fmt.Println("--- HISTORY ---")
	if len(item.History) == 0 {
		fmt.Println("No recorded movements.")
	}
	for _, line := range item.History {
		fmt.Println(line)
	}
}

func (sh *shell) readFields(defaults *model.Item) store.Fields {
	read := func(label, current string) string {
		if current != "" {
			label = fmt.Sprintf("%s [%s]", label, current)
		}
		value := strings.TrimSpace(sh.prompt(label + ": "))
		if value == "" {
			return current
		}
		return value
	}
	var d model.Item
	qty := ""
	if defaults != nil {
		d = *defaults
		qty = fmt.Sprintf("%d", defaults.Quantity)
	}
	return store.Fields{
		Code:        read("Code", d.Code),
		Name:        read("Name", d.Name),
		Quantity:    read("Stock", qty),
		Location:    read("Location", d.Location),
		Description: read("Description", d.Description),
	}
}

func (sh *shell) add() {
	fmt.Printf("New item (next id: %s)\n", sh.store.NextID())
	fields := sh.readFields(nil)
	if !sh.confirm(fmt.Sprintf("Register %q?", fields.Name)) {
		return
	}
	item, err := sh.store.Create(fields)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Item saved with id %s.\n", item.ID)
}

func (sh *shell) edit(id string) {
	item := sh.store.Get(id)
	if item == nil {
		fmt.Printf("Item %s not found.\n", id)
		return
	}
	fields := sh.readFields(item)
	if !sh.confirm(fmt.Sprintf("Save changes to %q?", fields.Name)) {
		return
	}
	if _, err := sh.store.Update(id, fields); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Changes saved.")
}

func (sh *shell) delete(id string) {
	item := sh.store.Get(id)
	if item == nil {
		fmt.Printf("Item %s not found.\n", id)
		return
	}
	if !sh.confirm(fmt.Sprintf("PERMANENTLY delete %q (id %s)?", item.Name, id)) {
		return
	}
	if err := sh.store.Delete(id); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Item deleted.")
}

// transaction builds a cart interactively and commits it as one batch.
func (sh *shell) transaction(direction model.Action) {
	employee := strings.TrimSpace(sh.prompt("Employee number: "))
	var cart []model.CartLine
	for {
		line := strings.TrimSpace(sh.prompt("Item code (empty to finish): "))
		if line == "" {
			break
		}
		item := sh.store.FindByCode(line)
		if item == nil {
			fmt.Printf("Code %q does not exist.\n", line)
			continue
		}
		qty := strings.TrimSpace(sh.prompt(fmt.Sprintf("Quantity of %q (stock %d): ", item.Name, item.Quantity)))
		n := 0
		if _, err := fmt.Sscanf(qty, "%d", &n); err != nil || n <= 0 {
			fmt.Println("Quantity must be a positive number.")
			continue
		}
		cart = append(cart, model.CartLine{ItemID: item.ID, Code: item.Code, Name: item.Name, Qty: n})
	}

	if len(cart) == 0 {
		fmt.Println("The cart is empty.")
		return
	}
	verb := "loan to"
	if direction == model.ActionReturn {
		verb = "return from"
	}
	fmt.Printf("Cart (%s employee %s):\n", verb, employee)
	for _, line := range cart {
		fmt.Printf("  %d x %s [%s]\n", line.Qty, line.Name, line.Code)
	}
	if !sh.confirm("Process this batch?") {
		return
	}

	if err := sh.store.ProcessBatch(cart, employee, direction); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Done, %d items processed.\n", len(cart))
}

func (sh *shell) today() {
	date := time.Now().Format(model.DateLayout)
	s := report.DailySummary(sh.log.Entries(), date)
	if len(s.LatestFirst) == 0 {
		fmt.Println("No movements today.")
		return
	}
	fmt.Printf("Loans: %d | Returns: %d | Created: %d | Deleted: %d\n",
		s.Loans, s.Returns, s.Created, s.Deleted)
	for _, e := range s.LatestFirst {
		fmt.Printf("%s  %-7s %-8s %-25s %s\n", e.Time, e.Action, e.Code, clip(e.Name, 25), e.Detail)
	}
}

func (sh *shell) employees() {
	date := time.Now().Format(model.DateLayout)
	b := report.OutstandingByEmployee(sh.log.Entries(), date)
	if len(b.Entries) == 0 {
		fmt.Println("No loan activity today.")
		return
	}
	fmt.Printf("%-10s %-10s %-25s %7s %9s %8s  %s\n",
		"EMPLOYEE", "CODE", "ITEM", "LOANED", "RETURNED", "PENDING", "STATUS")
	for _, bal := range b.Entries {
		fmt.Printf("%-10s %-10s %-25s %7d %9d %8d  %s\n",
			bal.Employee, bal.Code, clip(bal.Name, 25), bal.Loaned, bal.Returned, bal.Pending, bal.Status)
	}
	fmt.Printf("Active records: %d | With pending items: %d\n", len(b.Entries), b.PendingCount)
	if b.Unparsable > 0 {
		fmt.Printf("Skipped %d unparsable log entries.\n", b.Unparsable)
	}
}

func (sh *shell) backup() {
	if sh.store.Len() == 0 {
		fmt.Println("Nothing to back up.")
		return
	}
	if !sh.confirm("Create a backup now?") {
		return
	}
	name, err := backup.ManualSnapshot(sh.cfg.StoreFile, sh.cfg.BackupDir, time.Now())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Backup created: %s\n", filepath.Join(sh.cfg.BackupDir, name))
}

func (sh *shell) backups(name string) {
	if name == "" {
		names, err := backup.List(sh.cfg.BackupDir)
		if err != nil {
			fmt.Println("Error:", err)
			return
		}
		if len(names) == 0 {
			fmt.Println("No backups yet.")
			return
		}
		for _, n := range names {
			fmt.Println(" ", n)
		}
		return
	}

	items, err := backup.Read(sh.cfg.BackupDir, name)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("READ-ONLY view of %s:\n", name)
	for _, item := range items {
		fmt.Printf("%-4s %-10s %-30s %5d  %-8s %s\n",
			item.ID, item.Code, clip(item.Name, 30), item.Quantity, item.Location, item.LastMovement())
	}
}

func (sh *shell) export(args string) {
	parts := strings.Fields(args)
	if len(parts) < 2 {
		fmt.Println("Usage: export <inv|item|day> <xlsx|md|pdf> [id]")
		return
	}
	what, flavor := parts[0], parts[1]
	now := time.Now()

	var err error
	var path string
	switch what {
	case "inv":
		items := sh.store.List()
		path = "Inventory_Full." + flavor
		switch flavor {
		case "xlsx":
			err = export.InventoryXLSX(path, items, now)
		case "md":
			err = export.WriteMarkdown(path, export.InventoryMarkdown(items, now))
		case "pdf":
			err = export.InventoryPDF(path, items)
		default:
			err = fmt.Errorf("unknown flavor %q", flavor)
		}
	case "item":
		if len(parts) < 3 {
			fmt.Println("Usage: export item <xlsx|md|pdf> <id>")
			return
		}
		item := sh.store.Get(parts[2])
		if item == nil {
			fmt.Printf("Item %s not found.\n", parts[2])
			return
		}
		path = "FactSheet_" + item.ID + "." + flavor
		switch flavor {
		case "xlsx":
			err = export.ItemXLSX(path, item)
		case "md":
			err = export.WriteMarkdown(path, export.ItemMarkdown(item))
		case "pdf":
			err = export.ItemPDF(path, item)
		default:
			err = fmt.Errorf("unknown flavor %q", flavor)
		}
	case "day":
		date := now.Format(model.DateLayout)
		s := report.DailySummary(sh.log.Entries(), date)
		path = "Daily_Report_" + strings.ReplaceAll(date, "/", "-") + "." + flavor
		switch flavor {
		case "xlsx":
			err = export.DailyXLSX(path, s)
		case "md":
			err = export.WriteMarkdown(path, export.DailyMarkdown(s))
		case "pdf":
			err = export.DailyPDF(path, s)
		default:
			err = fmt.Errorf("unknown flavor %q", flavor)
		}
	default:
		fmt.Printf("Unknown export target %q.\n", what)
		return
	}

	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Exported to %s.\n", path)
}

func clip(text string, max int) string {
	if len(text) > max {
		return text[:max]
	}
	return text
}
