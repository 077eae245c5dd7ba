package tripay

import (
    "crypto/md5"
    "encoding/hex"
    "fmt"
    "sort"

    "github.com/spf13/cast"
)

// paramsCacheKey appends an md5 digest of the parameters to a base key
// so filtered catalog reads cache independently. Parameters are
// canonicalized by key order before hashing.
func paramsCacheKey(base string, params map[string]interface{}) string {
    if len(params) == 0 {
        return base
    }
    keys := make([]string, 0, len(params))
    for k := range params {
        keys = append(keys, k)
    }
    sort.Strings(keys)

    canonical := ""
    for _, k := range keys {
        canonical += fmt.Sprintf("%s=%s;", k, cast.ToString(params[k]))
    }
    sum := md5.Sum([]byte(canonical))
    return base + "_" + hex.EncodeToString(sum[:])
}

// catalogParams builds the optional category/operator filter set,
// leaving out empty filters entirely.
func catalogParams(category, operator string) map[string]interface{} {
    params := map[string]interface{}{}
    if category != "" {
        params["category"] = category
    }
    if operator != "" {
        params["operator"] = operator
    }
    return params
}
