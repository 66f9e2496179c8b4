package shared

import (
	"fmt"
	"satchel/shared/constants"
	"satchel/shared/endpoints"
	"sort"
)

const constsJS = `
// Auto-generated from shared/js.go. Don't edit this manually.

export const Version = "%s";
export const CatalogKindUser = "%s";
export const CatalogKindSpam = "%s";
export const CatalogKindUnorganized = "%s";
export const MaxNameLen = %d;
export const MaxDescriptionLen = %d;
export const DefaultQueryLimit = %d;
export const MaxQueryLimit = %d;`

const endpointsHeadJS = `
// Auto-generated from shared/js.go. Don't edit this manually.

export type Endpoint = {
    path: string
}

export class Endpoints {`

const endpointsTailJS = `

    static format(endpoint: Endpoint, ...args: string[]): string {
        let path = endpoint.path;
        for (let arg of args) {
            path = path.replace("*", arg);
        }

        return path;
    }
}
`

const endpointEntry = `
    static %s: Endpoint = {path: "%s"};`

func GenerateSharedJS() (string, string) {
	jsConsts := fmt.Sprintf(constsJS,
		constants.VERSION,
		constants.CatalogKindUser,
		constants.CatalogKindSpam,
		constants.CatalogKindUnorganized,
		constants.MaxNameLen,
		constants.MaxDescriptionLen,
		constants.DefaultQueryLimit,
		constants.MaxQueryLimit)

	// Sorted so that regenerating the file produces a stable diff
	var names []string
	paths := make(map[string]endpoints.Endpoint)
	for apiEndpoint, varName := range endpoints.JSVarNameMap {
		names = append(names, varName)
		paths[varName] = apiEndpoint
	}
	sort.Strings(names)

	jsEndpoints := endpointsHeadJS
	for _, varName := range names {
		jsEndpoints += fmt.Sprintf(endpointEntry, varName, paths[varName])
	}

	jsEndpoints += endpointsTailJS
	return jsConsts, jsEndpoints
}
