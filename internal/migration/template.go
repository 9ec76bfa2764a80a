package migration

import (
	"fmt"
	"strings"

	"github.com/Rana718/tablesmith/internal/typemap"
)

const bodyIndent = "\n            "

const scriptTemplate = `<?php

use Illuminate\Database\Migrations\Migration;
use Illuminate\Database\Schema\Blueprint;
use Illuminate\Support\Facades\Schema;

return new class extends Migration
{
    /**
     * Run the migrations.
     *
     * @return void
     */
    public function up(): void
    {
        Schema::create(%[1]s, function (Blueprint $table) {
            %[2]s
        });
    }

    /**
     * Reverse the migrations.
     *
     * @return void
     */
    public function down(): void
    {
        Schema::dropIfExists(%[1]s);
    }
};
`

// Render wraps the statement body in a migration script with up and down actions.
func (m *Migration) Render() string {
	return fmt.Sprintf(scriptTemplate, typemap.Quote(m.Table), strings.Join(m.Body(), bodyIndent))
}
