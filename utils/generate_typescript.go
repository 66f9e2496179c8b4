package main

import (
	"fmt"
	"github.com/tkrajina/typescriptify-golang-structs/typescriptify"
	"log"
	"os"
	"satchel/shared"
	"time"
)

const jsConstsFile = "constants.ts"
const structsFile = "interfaces.ts"
const jsEndpointsFile = "endpoints.ts"

func write(path, contents string) {
	if err := os.WriteFile(path, []byte(contents), 0666); err != nil {
		log.Fatal(err)
	}
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Must specify output directory")
	}

	outDir := os.Args[1]
	consts, endpoints := shared.GenerateSharedJS()
	if _, err := os.Stat(outDir); err != nil {
		log.Fatal(err)
	}

	constsOut := fmt.Sprintf("%s/%s", outDir, jsConstsFile)
	structsOut := fmt.Sprintf("%s/%s", outDir, structsFile)
	endpointsOut := fmt.Sprintf("%s/%s", outDir, jsEndpointsFile)

	write(constsOut, consts)
	write(endpointsOut, endpoints)

	fmt.Printf("TypeScript constants written to: %s\n", constsOut)
	fmt.Printf("TypeScript endpoints written to: %s\n", endpointsOut)

	// Disable output for typescriptify (too verbose w/ no way to disable)
	f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0644)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	old := os.Stdout
	os.Stdout = f

	converter := typescriptify.New().
		ManageType(time.Time{}, typescriptify.TypeOptions{TSType: "string"}).
		Add(shared.Signup{}).
		Add(shared.SignupResponse{}).
		Add(shared.Login{}).
		Add(shared.LoginResponse{}).
		Add(shared.SessionInfo{}).
		Add(shared.ServerInfo{}).
		Add(shared.Wallet{}).
		Add(shared.NewWallet{}).
		Add(shared.NewWalletResponse{}).
		Add(shared.SyncResponse{}).
		Add(shared.Attribute{}).
		Add(shared.Artifact{}).
		Add(shared.Catalog{}).
		Add(shared.Folder{}).
		Add(shared.NewCatalog{}).
		Add(shared.NewFolder{}).
		Add(shared.ModifyItem{}).
		Add(shared.ItemIDs{}).
		Add(shared.SetSpam{}).
		Add(shared.SpamResponse{}).
		Add(shared.RefreshRequest{}).
		Add(shared.RefreshResponse{}).
		Add(shared.ArtifactQueryResponse{}).
		Add(shared.CatalogResponse{}).
		Add(shared.FolderResponse{}).
		Add(shared.DeleteResponse{})

	converter.WithBackupDir("")
	err = converter.ConvertToFile(structsOut)
	if err != nil {
		panic(err.Error())
	}

	os.Stdout = old
	fmt.Printf("TypeScript interfaces written to: %s\n", structsOut)
}
