package sqlinline

const QGetSetting = `--sql 3f887802-83ec-43f7-a329-ac3ead7d13da
select value
from app_config
where key = $1::text
limit 1;
`

const QUpsertSetting = `--sql e8623634-8188-4127-b64d-99373a5866fd
insert into app_config(key, value, updated_at)
values ($1::text, $2::text, now())
on conflict (key) do update set
    value = excluded.value,
    updated_at = now();
`
